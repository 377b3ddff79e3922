package middleware

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/infra/token"
	"storefront/internal/repository"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // int64
	CtxUserRoleKey = "user_role" // string
)

// bearerトークンの検証
type TokenParser interface {
	Parse(raw string) (token.Claims, error)
}

// セッション→bearerの順でログインユーザーを特定してcontextへ入れる。
// 特定できなくても通す（弾くのはRequireAuth）。
func Authenticate(sm *scs.SessionManager, parser TokenParser, users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			//セッションcookie
			if sm != nil {
				if uid := sm.GetInt64(ctx, SessionUserIDKey); uid > 0 {
					if u := loadActiveUser(ctx, users, uid); u != nil {
						setIdentity(c, u)
						return next(c)
					}
					//削除/停止されたユーザーのセッションは捨てる
					sm.Remove(ctx, SessionUserIDKey)
				}
			}

			//Authorization: Bearer
			if raw, ok := bearerToken(c.Request()); ok && parser != nil {
				if u := verifyBearer(ctx, parser, users, raw); u != nil {
					setIdentity(c, u)
				}
			}

			return next(c)
		}
	}
}

// ログイン必須（401）
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserIDFrom(c); !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Authentication credentials were not provided."))
			}
			return next(c)
		}
	}
}

// contextのuser_id
func UserIDFrom(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func setIdentity(c echo.Context, u *model.User) {
	c.Set(CtxUserIDKey, u.ID)
	c.Set(CtxUserRoleKey, string(u.Role))
}

func loadActiveUser(ctx context.Context, users repository.UserRepository, userID int64) *model.User {
	u, err := users.FindByID(ctx, userID)
	if err != nil || u == nil || !u.IsActive {
		return nil
	}
	return u
}

//Bearer形式か確認してtokenを抜く
func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
