package middleware

import (
	"net/http"

	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがADMINかどうかを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserIDFrom(c); !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("Authentication credentials were not provided."))
			}
			role, _ := c.Get(CtxUserRoleKey).(string)

			//USERは拒否、ADMINだけ許可
			if role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, errorJSON("You do not have permission to perform this action."))
			}

			return next(c)
		}
	}
}
