package server

import (
	"net/http"

	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

// 各handlerが自分のルートを登録する
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

func RegisterRoutes(e *echo.Echo, metrics *middleware.HTTPMetrics, handlers ...RouteRegistrar) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}
}
