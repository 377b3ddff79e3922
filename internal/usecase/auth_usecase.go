package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const minPasswordLength = 8

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(user *model.User, now time.Time) (token string, expiresAt time.Time, err error)
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	//seed用。HTTPからは常にUSER
	Role model.Role
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	User  UserDTO     `json:"user"`
	Token AccessToken `json:"token"`
}

// PUT /profile。nilの項目は変更しない
type ProfileInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
}

type AuthUsecase struct {
	users    repo.UserRepository
	hasher   PasswordHasher
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	now      func() time.Time
}

// DI
func NewAuthUsecase(
	users repo.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		issuer:   issuer,
		now:      time.Now,
	}
}

// 会員登録
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	fields := map[string][]string{}
	if username == "" {
		fields["username"] = []string{"This field is required."}
	} else if len(username) > 150 {
		fields["username"] = []string{"Ensure this field has no more than 150 characters."}
	}
	if !isValidEmailFormat(email) {
		fields["email"] = []string{"Enter a valid email address."}
	}
	// password の長さチェック
	if len(in.Password) < minPasswordLength {
		fields["password"] = []string{"This password is too short. It must contain at least 8 characters."}
	} else if isWeakPassword(in.Password) {
		fields["password"] = []string{"This password is too common."}
	}
	if len(fields) > 0 {
		return UserDTO{}, NewFieldErrors(fields)
	}

	//重複チェック
	if err := u.ensureUnique(ctx, 0, username, email); err != nil {
		return UserDTO{}, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserDTO{}, internalError(err)
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		IsActive:     true,
	}

	// DBへ保存（同時登録はunique制約で弾く）
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			return UserDTO{}, NewError(ErrConflict, "Username or email already exists")
		}
		return UserDTO{}, internalError(err)
	}
	return toUserDTO(user), nil
}

// ログイン（セッションはhandler側で張る）
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return LoginOutput{}, NewError(ErrValidation, "Username and password required")
	}

	user, err := u.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, repo.ErrUserNotFound) {
		return LoginOutput{}, NewError(ErrAuthentication, "Invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, internalError(err)
	}

	//パスワード照合
	if !u.verifier.Verify(in.Password, user.PasswordHash) {
		return LoginOutput{}, NewError(ErrAuthentication, "Invalid credentials")
	}
	//停止ユーザーはログイン不可
	if !user.IsActive {
		return LoginOutput{}, NewError(ErrAuthentication, "User account is disabled")
	}

	//AccessToken発行
	now := u.now()
	token, exp, err := u.issuer.Issue(user, now)
	if err != nil {
		return LoginOutput{}, internalError(err)
	}

	//最終ログイン時刻更新
	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		return LoginOutput{}, internalError(err)
	}

	return LoginOutput{
		User: toUserDTO(user),
		Token: AccessToken{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int(exp.Sub(now).Seconds()),
		},
	}, nil
}

// 発行済みのbearerトークンを無効化（token_version+1）
func (u *AuthUsecase) Logout(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return nil
	}
	if err := u.users.IncrementTokenVersion(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil
		}
		return internalError(err)
	}
	return nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (UserDTO, error) {
	user, err := u.activeUser(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(user), nil
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (UserDTO, error) {
	user, err := u.activeUser(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}

	fields := map[string][]string{}
	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		if v == "" || len(v) > 150 {
			fields["username"] = []string{"Enter a valid username."}
		}
		user.Username = v
	}
	if in.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Email))
		if !isValidEmailFormat(v) {
			fields["email"] = []string{"Enter a valid email address."}
		}
		user.Email = v
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if len(fields) > 0 {
		return UserDTO{}, NewFieldErrors(fields)
	}

	if err := u.ensureUnique(ctx, user.ID, user.Username, user.Email); err != nil {
		return UserDTO{}, err
	}
	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			return UserDTO{}, NewError(ErrConflict, "Username or email already exists")
		}
		return UserDTO{}, internalError(err)
	}
	return toUserDTO(user), nil
}

func (u *AuthUsecase) activeUser(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, unauthorized()
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, unauthorized()
	}
	if err != nil {
		return nil, internalError(err)
	}
	if !user.IsActive {
		return nil, unauthorized()
	}
	return user, nil
}

// 自分(selfID)以外に同じusername/emailがいればConflict
func (u *AuthUsecase) ensureUnique(ctx context.Context, selfID int64, username string, email string) error {
	existing, err := u.users.FindByUsername(ctx, username)
	if err == nil && existing.ID != selfID {
		return NewError(ErrConflict, "Username already exists")
	}
	if err != nil && !errors.Is(err, repo.ErrUserNotFound) {
		return internalError(err)
	}

	existing, err = u.users.FindByEmail(ctx, email)
	if err == nil && existing.ID != selfID {
		return NewError(ErrConflict, "Email already exists")
	}
	if err != nil && !errors.Is(err, repo.ErrUserNotFound) {
		return internalError(err)
	}
	return nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
