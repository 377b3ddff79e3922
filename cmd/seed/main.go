package main

import (
	"context"
	"os"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/token"
	"storefront/internal/seed"
	"storefront/internal/usecase"

	"github.com/labstack/gommon/log"
)

// サンプルデータ投入（何度実行してもよい）
func main() {
	logger := log.New("seed")

	if err := config.LoadDotEnv(".env", "../.env"); err != nil {
		logger.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatalf("db migrate: %v", err)
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	hasher := usecase.NewBcryptPasswordHasher(12)
	authUC := usecase.NewAuthUsecase(userRepo, hasher, hasher, token.NewJWT(cfg.JWTSecret, cfg.AccessTokenTTL))
	reviewUC := usecase.NewReviewUsecase(txm, productRepo, reviewRepo)

	s := seed.NewSeeder(
		infraRepo.NewCategoryGormRepository(gormDB),
		productRepo,
		reviewRepo,
		userRepo,
		authUC,
		reviewUC,
		logger,
	)

	res, err := s.Run(context.Background(), os.Getenv("SEED_ADMIN_PASSWORD"))
	if err != nil {
		logger.Fatalf("seed: %v", err)
	}
	logger.Infof("Successfully populated database: categories=%d products=%d users=%d reviews=%d",
		res.Categories, res.Products, res.Users, res.Reviews)
}
