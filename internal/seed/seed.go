package seed

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

const (
	TestUsername  = "testuser"
	TestPassword  = "testpass123"
	AdminUsername = "admin"
)

// 作成した件数（既存はスキップ）
type Result struct {
	Categories int
	Products   int
	Users      int
	Reviews    int
}

// サンプルデータ投入。名前/sku/usernameで存在確認するので何度流してもよい。
type Seeder struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
	reviews    repo.ReviewRepository
	users      repo.UserRepository
	auth       *usecase.AuthUsecase
	reviewUC   *usecase.ReviewUsecase
	logger     *log.Logger
}

func NewSeeder(
	categories repo.CategoryRepository,
	products repo.ProductRepository,
	reviews repo.ReviewRepository,
	users repo.UserRepository,
	auth *usecase.AuthUsecase,
	reviewUC *usecase.ReviewUsecase,
	logger *log.Logger,
) *Seeder {
	return &Seeder{
		categories: categories,
		products:   products,
		reviews:    reviews,
		users:      users,
		auth:       auth,
		reviewUC:   reviewUC,
		logger:     logger,
	}
}

// adminPasswordが空ならadminユーザーは作らない
func (s *Seeder) Run(ctx context.Context, adminPassword string) (Result, error) {
	var res Result

	catIDs := make(map[string]int64, len(categories))
	for _, cs := range categories {
		c, err := s.categories.FindByName(ctx, cs.Name)
		if errors.Is(err, repo.ErrNotFound) {
			c, err = s.categories.Create(ctx, model.Category{Name: cs.Name, Image: cs.Image, Count: cs.Count})
			if err == nil {
				res.Categories++
				s.logger.Infof("Created category: %s", c.Name)
			}
		}
		if err != nil {
			return res, fmt.Errorf("category %q: %w", cs.Name, err)
		}
		catIDs[cs.Name] = c.ID
	}

	productIDs := make(map[string]int64, len(products))
	for _, ps := range products {
		p, err := s.products.FindBySKU(ctx, ps.SKU)
		if errors.Is(err, repo.ErrNotFound) {
			p, err = s.products.Create(ctx, model.Product{
				Name:          ps.Name,
				Description:   ps.Description,
				Price:         decimal.RequireFromString(ps.Price),
				OriginalPrice: decimal.RequireFromString(ps.OriginalPrice),
				Discount:      ps.Discount,
				SKU:           ps.SKU,
				CategoryID:    catIDs[ps.Category],
				InStock:       true,
				Colors:        ps.Colors,
				Sizes:         ps.Sizes,
				Features:      ps.Features,
				Images:        ps.Images,
			})
			if err == nil {
				res.Products++
				s.logger.Infof("Created product: %s", p.Name)
			}
		}
		if err != nil {
			return res, fmt.Errorf("product %q: %w", ps.SKU, err)
		}
		productIDs[ps.SKU] = p.ID
	}

	testUser, created, err := s.ensureUser(ctx, usecase.RegisterInput{
		Username:  TestUsername,
		Email:     "test@example.com",
		Password:  TestPassword,
		FirstName: "Test",
		LastName:  "User",
		Role:      model.RoleUser,
	})
	if err != nil {
		return res, err
	}
	if created {
		res.Users++
		s.logger.Infof("Created test user: %s (password: %s)", TestUsername, TestPassword)
	}

	if adminPassword != "" {
		_, created, err := s.ensureUser(ctx, usecase.RegisterInput{
			Username: AdminUsername,
			Email:    "admin@example.com",
			Password: adminPassword,
			Role:     model.RoleAdmin,
		})
		if err != nil {
			return res, err
		}
		if created {
			res.Users++
			s.logger.Infof("Created admin user: %s", AdminUsername)
		}
	}

	//レビューはusecase経由で入れて評価キャッシュを揃える
	for _, rs := range reviews {
		pid := productIDs[rs.SKU]
		_, err := s.reviews.FindByProductAndUser(ctx, pid, testUser.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return res, fmt.Errorf("review %q: %w", rs.SKU, err)
		}
		if _, err := s.reviewUC.SubmitReview(ctx, testUser.ID, pid, usecase.SubmitReviewInput{
			Rating:  rs.Rating,
			Comment: rs.Comment,
		}); err != nil {
			return res, fmt.Errorf("review %q: %w", rs.SKU, err)
		}
		res.Reviews++
		s.logger.Infof("Created review for %s", rs.SKU)
	}

	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, in usecase.RegisterInput) (*model.User, bool, error) {
	u, err := s.users.FindByUsername(ctx, in.Username)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, repo.ErrUserNotFound) {
		return nil, false, fmt.Errorf("user %q: %w", in.Username, err)
	}

	if _, err := s.auth.Register(ctx, in); err != nil {
		return nil, false, fmt.Errorf("register %q: %w", in.Username, err)
	}
	u, err = s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, false, fmt.Errorf("user %q: %w", in.Username, err)
	}
	return u, true, nil
}
