package middleware

import (
	"net/http"
	"time"

	"storefront/internal/config"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
)

// セッションに入れるログインユーザーID
const SessionUserIDKey = "user_id"

const sessionCookieName = "sessionid"

// セッションマネージャ（cookie名はsessionid）
func NewSessionManager(cfg config.Config) *scs.SessionManager {
	sm := scs.New()
	sm.Lifetime = cfg.SessionLifetime
	sm.Cookie.Name = sessionCookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.CookieSecure
	return sm
}

// scsのLoadAndSaveをechoに合わせたもの。
// handlerがerrorを返してもechoのエラーハンドラが書く前にcookieを付ける。
func Sessions(sm *scs.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()

			var token string
			if ck, err := r.Cookie(sm.Cookie.Name); err == nil {
				token = ck.Value
			}

			ctx, err := sm.Load(r.Context(), token)
			if err != nil {
				return err
			}
			c.SetRequest(r.WithContext(ctx))
			c.Response().Header().Add("Vary", "Cookie")

			c.Response().Before(func() {
				switch sm.Status(ctx) {
				case scs.Modified:
					tok, expiry, err := sm.Commit(ctx)
					if err != nil {
						c.Logger().Errorf("session commit: %v", err)
						return
					}
					sm.WriteSessionCookie(ctx, c.Response().Writer, tok, expiry)
				case scs.Destroyed:
					sm.WriteSessionCookie(ctx, c.Response().Writer, "", time.Time{})
				}
			})

			return next(c)
		}
	}
}
