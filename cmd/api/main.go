package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/event"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/token"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/labstack/gommon/log"
)

func main() {
	logger := log.New("storefront")

	if err := config.LoadDotEnv(".env", "../.env"); err != nil {
		logger.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}
	logger.SetLevel(logLevel(cfg.LogLevel))

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("db migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	wishlistRepo := infraRepo.NewWishlistGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	jwtIssuer := token.NewJWT(cfg.JWTSecret, cfg.AccessTokenTTL)
	hasher := usecase.NewBcryptPasswordHasher(12)
	publisher := event.NewOrderPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warnf("close publisher: %v", err)
		}
	}()

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, hasher, hasher, jwtIssuer)
	productUC := usecase.NewProductUsecase(txm, productRepo, categoryRepo, reviewRepo)
	reviewUC := usecase.NewReviewUsecase(txm, productRepo, reviewRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	wishlistUC := usecase.NewWishlistUsecase(txm, wishlistRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, orderItemRepo, usecase.UUIDOrderNumberGenerator{}, publisher, logger)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, orderItemRepo)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	sessions := middleware.NewSessionManager(cfg)

	//Handler生成
	e := server.New(server.Options{
		Sessions: sessions,
		Tokens:   jwtIssuer,
		Users:    userRepo,
		Metrics:  middleware.NewHTTPMetrics("storefront"),
		LogLevel: logLevel(cfg.LogLevel),
	},
		handler.NewAuthHandler(authUC, sessions),
		handler.NewCategoryHandler(productUC),
		handler.NewProductHandler(productUC, reviewUC),
		handler.NewCartHandler(cartUC),
		handler.NewWishlistHandler(wishlistUC),
		handler.NewOrderHandler(orderUC),
		handler.NewAdminProductHandler(productUC, reviewUC),
		handler.NewAdminOrderHandler(adminOrderUC),
		handler.NewAdminAuditHandler(auditUC),
	)

	//Server起動
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	logger.Infof("listening on %s", addr)
	if err := server.Start(ctx, e, addr); err != nil {
		logger.Errorf("server: %v", err)
	}
}

func logLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
