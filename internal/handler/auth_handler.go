package handler

import (
	"context"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
)

// /auth と /profile
type AuthHandler struct {
	uc       *usecase.AuthUsecase
	sessions *scs.SessionManager
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, sessions *scs.SessionManager) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions}
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Username  *string `json:"username" validate:"omitempty,max=150"`
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
}

type authResponse struct {
	Message string               `json:"message"`
	User    usecase.UserDTO      `json:"user"`
	Token   *usecase.AccessToken `json:"token,omitempty"`
}

type checkResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *usecase.UserDTO `json:"user,omitempty"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/check", h.check)

	auth := middleware.RequireAuth()
	e.GET("/profile", h.getProfile, auth)
	e.PUT("/profile", h.updateProfile, auth)
}

// 登録後はそのままログイン状態にする
func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return writeError(c, err)
	}

	if err := h.startSession(c.Request().Context(), user.ID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, authResponse{Message: "Registration successful", User: user})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	if err := h.startSession(c.Request().Context(), out.User.ID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, authResponse{Message: "Login successful", User: out.User, Token: &out.Token})
}

// セッション破棄＋発行済みbearerトークンの失効
func (h *AuthHandler) logout(c echo.Context) error {
	ctx := c.Request().Context()
	if userID, ok := getUserIDFromContext(c); ok {
		if err := h.uc.Logout(ctx, userID); err != nil {
			return writeError(c, err)
		}
	}
	if err := h.sessions.Destroy(ctx); err != nil {
		c.Logger().Errorf("session destroy: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Logout successful"})
}

func (h *AuthHandler) check(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusOK, checkResponse{Authenticated: false})
	}
	user, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusOK, checkResponse{Authenticated: false})
	}
	return c.JSON(http.StatusOK, checkResponse{Authenticated: true, User: &user})
}

func (h *AuthHandler) getProfile(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	user, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) updateProfile(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}
	var req profileRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), userID, usecase.ProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// トークンを作り直してからuser_idを入れる
func (h *AuthHandler) startSession(ctx context.Context, userID int64) error {
	if err := h.sessions.RenewToken(ctx); err != nil {
		return err
	}
	h.sessions.Put(ctx, middleware.SessionUserIDKey, userID)
	return nil
}
