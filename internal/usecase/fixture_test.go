package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db/dbtest"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// sqliteの上に本物のリポジトリを組む
type fixture struct {
	db         *gorm.DB
	tx         *infraRepo.TxManagerGorm
	users      repo.UserRepository
	categories *infraRepo.CategoryGormRepository
	products   *infraRepo.ProductGormRepository
	reviews    *infraRepo.ReviewGormRepository
	cartItems  *infraRepo.CartItemGormRepository
	wishlist   *infraRepo.WishlistGormRepository
	orders     *infraRepo.OrderGormRepository
	orderItems *infraRepo.OrderItemGormRepository
	audits     repo.AuditLogRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	return &fixture{
		db:         gdb,
		tx:         infraRepo.NewTxManagerGorm(gdb),
		users:      infraRepo.NewUserGormRepository(gdb),
		categories: infraRepo.NewCategoryGormRepository(gdb),
		products:   infraRepo.NewProductGormRepository(gdb),
		reviews:    infraRepo.NewReviewGormRepository(gdb),
		cartItems:  infraRepo.NewCartItemGormRepository(gdb),
		wishlist:   infraRepo.NewWishlistGormRepository(gdb),
		orders:     infraRepo.NewOrderGormRepository(gdb),
		orderItems: infraRepo.NewOrderItemGormRepository(gdb),
		audits:     infraRepo.NewAuditLogGormRepository(gdb),
	}
}

func (f *fixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) category(t *testing.T, name string) model.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), model.Category{Name: name})
	require.NoError(t, err)
	return c
}

var skuSeq struct {
	sync.Mutex
	n int
}

func nextSKU() string {
	skuSeq.Lock()
	defer skuSeq.Unlock()
	skuSeq.n++
	return fmt.Sprintf("SKU-%03d", skuSeq.n)
}

func (f *fixture) product(t *testing.T, categoryID int64, name string, price string) model.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), model.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		SKU:         nextSKU(),
		CategoryID:  categoryID,
		InStock:     true,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
