package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductUC(f *fixture) *usecase.ProductUsecase {
	return usecase.NewProductUsecase(f.tx, f.products, f.categories, f.reviews)
}

func names(ps []usecase.ProductSummary) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

// Men's Fashion: Shirt 19.99 / Jeans 39.99, Footwear: Runner 59.99
func seedCatalog(t *testing.T, f *fixture) (model.Product, model.Product, model.Product) {
	t.Helper()
	men := f.category(t, "Men's Fashion")
	foot := f.category(t, "Footwear")
	shirt := f.product(t, men.ID, "Classic Shirt", "19.99")
	jeans := f.product(t, men.ID, "Slim Jeans", "39.99")
	runner := f.product(t, foot.ID, "Running Shoes", "59.99")
	return shirt, jeans, runner
}

func TestListProducts_FiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedCatalog(t, f)
	uc := newProductUC(f)

	all, err := uc.ListProducts(ctx, usecase.ListProductsInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic Shirt", "Slim Jeans", "Running Shoes"}, names(all))

	byCat, err := uc.ListProducts(ctx, usecase.ListProductsInput{Category: "men's"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic Shirt", "Slim Jeans"}, names(byCat))

	search, err := uc.ListProducts(ctx, usecase.ListProductsInput{Search: "SHOES"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Running Shoes"}, names(search))

	ranged, err := uc.ListProducts(ctx, usecase.ListProductsInput{MinPrice: ptr(dec("19.99")), MaxPrice: ptr(dec("39.99"))})
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic Shirt", "Slim Jeans"}, names(ranged))

	high, err := uc.ListProducts(ctx, usecase.ListProductsInput{SortBy: repo.SortPriceHigh})
	require.NoError(t, err)
	assert.Equal(t, []string{"Running Shoes", "Slim Jeans", "Classic Shirt"}, names(high))

	low, err := uc.ListProducts(ctx, usecase.ListProductsInput{SortBy: repo.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic Shirt", "Slim Jeans", "Running Shoes"}, names(low))

	// % と _ はワイルドカードにならない
	sale := f.category(t, "Sale_Items")
	f.product(t, sale.ID, "Shirt 50% off", "9.99")

	pct, err := uc.ListProducts(ctx, usecase.ListProductsInput{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shirt 50% off"}, names(pct))

	under, err := uc.ListProducts(ctx, usecase.ListProductsInput{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, under)

	backslash, err := uc.ListProducts(ctx, usecase.ListProductsInput{Search: `\`})
	require.NoError(t, err)
	assert.Empty(t, backslash)

	catUnder, err := uc.ListProducts(ctx, usecase.ListProductsInput{Category: "_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Shirt 50% off"}, names(catUnder))

	catPct, err := uc.ListProducts(ctx, usecase.ListProductsInput{Category: "men%s"})
	require.NoError(t, err)
	assert.Empty(t, catPct)
}

func TestListProducts_InvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := newProductUC(f)

	_, err := uc.ListProducts(ctx, usecase.ListProductsInput{SortBy: "cheapest"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrValidation))
	ae, ok := usecase.AsAppError(err)
	require.True(t, ok)
	assert.Contains(t, ae.Fields, "sort_by")

	_, err = uc.ListProducts(ctx, usecase.ListProductsInput{MinPrice: ptr(dec("50")), MaxPrice: ptr(dec("10"))})
	assert.True(t, errors.Is(err, usecase.ErrValidation))
}

func TestFeaturedAndRelated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	shirt, jeans, runner := seedCatalog(t, f)
	uc := newProductUC(f)

	require.NoError(t, f.products.UpdateRatingCache(ctx, shirt.ID, dec("4.5"), 2))
	require.NoError(t, f.products.UpdateRatingCache(ctx, jeans.ID, dec("3.9"), 1))
	require.NoError(t, f.products.UpdateRatingCache(ctx, runner.ID, dec("4.0"), 1))

	featured, err := uc.FeaturedProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic Shirt", "Running Shoes"}, names(featured))

	related, err := uc.RelatedProducts(ctx, shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Slim Jeans"}, names(related))

	_, err = uc.RelatedProducts(ctx, 0)
	assert.True(t, errors.Is(err, usecase.ErrValidation))
	_, err = uc.RelatedProducts(ctx, 999)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
}

func TestGetProduct_AverageRatingFromReviews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	shirt, _, _ := seedCatalog(t, f)
	a := f.user(t, "alice")
	b := f.user(t, "bob")
	reviews := newReviewUC(f)
	uc := newProductUC(f)

	_, err := reviews.SubmitReview(ctx, a.ID, shirt.ID, usecase.SubmitReviewInput{Rating: 5})
	require.NoError(t, err)
	_, err = reviews.SubmitReview(ctx, b.ID, shirt.ID, usecase.SubmitReviewInput{Rating: 4})
	require.NoError(t, err)

	d, err := uc.GetProduct(ctx, shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.5", d.AverageRating.String())
	assert.Len(t, d.Reviews, 2)
	require.NotNil(t, d.Category)
	assert.Equal(t, "Men's Fashion", d.Category.Name)

	_, err = uc.GetProduct(ctx, 999)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedCatalog(t, f)
	uc := newProductUC(f)

	cs, err := uc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 2)

	ps, err := uc.ListCategoryProducts(ctx, cs[0].ID)
	require.NoError(t, err)
	assert.Len(t, ps, 2)

	_, err = uc.GetCategory(ctx, 999)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
}

func TestAdminProductLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.user(t, "root")
	shopper := f.user(t, "alice")
	uc := newProductUC(f)

	cat, err := uc.AdminCreateCategory(ctx, admin.ID, usecase.CategoryInput{Name: "Hats"})
	require.NoError(t, err)
	_, err = uc.AdminCreateCategory(ctx, admin.ID, usecase.CategoryInput{Name: "Hats"})
	assert.True(t, errors.Is(err, usecase.ErrConflict))

	in := usecase.ProductInput{
		Name:          "Bucket Hat",
		Price:         dec("15.00"),
		OriginalPrice: dec("20.00"),
		SKU:           "HAT-001",
		CategoryID:    cat.ID,
		Colors:        []string{"Black"},
	}
	created, err := uc.AdminCreateProduct(ctx, admin.ID, in)
	require.NoError(t, err)
	assert.True(t, created.InStock)
	assert.Equal(t, int64(25), created.DiscountPercentage)
	assert.Equal(t, []string{"Black"}, created.Colors)

	_, err = uc.AdminCreateProduct(ctx, admin.ID, in)
	assert.True(t, errors.Is(err, usecase.ErrConflict))

	bad := in
	bad.CategoryID = 999
	bad.SKU = "HAT-002"
	_, err = uc.AdminCreateProduct(ctx, admin.ID, bad)
	assert.True(t, errors.Is(err, usecase.ErrValidation))

	in.Price = dec("12.00")
	in.Colors = []string{"Black", "Beige"}
	updated, err := uc.AdminUpdateProduct(ctx, admin.ID, created.ID, in)
	require.NoError(t, err)
	assert.True(t, dec("12").Equal(updated.Price))
	assert.Equal(t, []string{"Black", "Beige"}, updated.Colors)

	stock, err := uc.AdminSetStock(ctx, admin.ID, created.ID, false)
	require.NoError(t, err)
	assert.False(t, stock.InStock)

	require.NoError(t, f.wishlistAdd(ctx, shopper.ID, created.ID))
	require.NoError(t, uc.AdminDeleteProduct(ctx, admin.ID, created.ID))
	_, err = uc.GetProduct(ctx, created.ID)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
	assert.Zero(t, f.count(t, &model.WishlistItem{}))

	logs, err := usecase.NewAuditLogUsecase(f.audits).List(ctx, admin.ID, repo.AuditLogFilter{})
	require.NoError(t, err)
	actions := make([]model.AuditAction, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []model.AuditAction{
		model.AuditActionDeleteProduct,
		model.AuditActionUpdateStock,
		model.AuditActionUpdateProduct,
		model.AuditActionCreateProduct,
		model.AuditActionCreateCategory,
	}, actions)
}

func (f *fixture) wishlistAdd(ctx context.Context, userID, productID int64) error {
	_, err := f.wishlist.Insert(ctx, userID, productID)
	return err
}
