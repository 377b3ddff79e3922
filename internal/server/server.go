package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

// echoの組み立てに必要な部品
type Options struct {
	Sessions *scs.SessionManager
	Tokens   middleware.TokenParser
	Users    repository.UserRepository
	Metrics  *middleware.HTTPMetrics
	LogLevel log.Lvl
}

// 共通middlewareを積んだechoを作り、各handlerのルートを登録する。
func New(opts Options, handlers ...RouteRegistrar) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(opts.LogLevel)
	e.Validator = validator.New()

	//末尾スラッシュは有っても無くても同じルート
	e.Pre(echomw.RemoveTrailingSlash())

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Errorj(log.JSON{
					"id": v.RequestID, "method": v.Method, "uri": v.URI,
					"status": v.Status, "latency": v.Latency.String(), "error": v.Error.Error(),
				})
				return nil
			}
			c.Logger().Infoj(log.JSON{
				"id": v.RequestID, "method": v.Method, "uri": v.URI,
				"status": v.Status, "latency": v.Latency.String(),
			})
			return nil
		},
	}))
	if opts.Metrics != nil {
		e.Use(opts.Metrics.Middleware())
	}
	if opts.Sessions != nil {
		e.Use(middleware.Sessions(opts.Sessions))
	}
	e.Use(middleware.Authenticate(opts.Sessions, opts.Tokens, opts.Users))

	RegisterRoutes(e, opts.Metrics, handlers...)
	return e
}

// ctxがキャンセルされたらgraceful shutdown
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
