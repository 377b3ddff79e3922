package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	featuredLimit = 8
	relatedLimit  = 4
)

var featuredMinRating = decimal.RequireFromString("4.0")

type ProductUsecase struct {
	tx         repo.TransactionManager
	products   repo.ProductRepository
	categories repo.CategoryRepository
	reviews    repo.ReviewRepository
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	categories repo.CategoryRepository,
	reviews repo.ReviewRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:         tx,
		products:   products,
		categories: categories,
		reviews:    reviews,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]ProductSummary, error) {
	sortBy := strings.TrimSpace(in.SortBy)
	switch sortBy {
	case "", repo.SortPriceLow, repo.SortPriceHigh, repo.SortRating, repo.SortNewest:
	default:
		return nil, NewFieldError("sort_by", "Invalid sort option. Use one of: price_low, price_high, rating, newest.")
	}
	if len(in.Search) > 100 || len(in.Category) > 100 {
		return nil, NewError(ErrValidation, "search term too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return nil, NewFieldError("min_price", "Ensure this value is greater than or equal to 0.")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return nil, NewFieldError("max_price", "Ensure this value is greater than or equal to 0.")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return nil, NewError(ErrValidation, "min_price must be less than or equal to max_price")
	}

	ps, err := u.products.List(ctx, repo.ProductListQuery{
		Category: in.Category,
		Search:   in.Search,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     sortBy,
	})
	if err != nil {
		return nil, internalError(err)
	}
	return toProductSummaries(ps), nil
}

// 詳細（カテゴリ・レビュー・平均評価つき）
func (u *ProductUsecase) GetProduct(ctx context.Context, id int64) (ProductDetail, error) {
	p, err := u.findProduct(ctx, id)
	if err != nil {
		return ProductDetail{}, err
	}

	rvs, err := u.reviews.ListByProductID(ctx, p.ID)
	if err != nil {
		return ProductDetail{}, internalError(err)
	}

	var st repo.ReviewStats
	outs := make([]ReviewOutput, 0, len(rvs))
	for _, rv := range rvs {
		st.Count++
		st.Total += int64(rv.Rating)
		outs = append(outs, toReviewOutput(rv))
	}

	return ProductDetail{
		ProductSummary: toProductSummary(p),
		Description:    p.Description,
		Colors:         nonNil(p.Colors),
		Sizes:          nonNil(p.Sizes),
		Features:       nonNil(p.Features),
		Reviews:        outs,
		AverageRating:  averageRating(st),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

// rating >= 4.0 を最大8件
func (u *ProductUsecase) FeaturedProducts(ctx context.Context) ([]ProductSummary, error) {
	ps, err := u.products.ListFeatured(ctx, featuredMinRating, featuredLimit)
	if err != nil {
		return nil, internalError(err)
	}
	return toProductSummaries(ps), nil
}

// 同じカテゴリの商品を最大4件
func (u *ProductUsecase) RelatedProducts(ctx context.Context, productID int64) ([]ProductSummary, error) {
	if productID <= 0 {
		return nil, NewError(ErrValidation, "product_id parameter is required")
	}
	p, err := u.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	ps, err := u.products.ListRelated(ctx, p, relatedLimit)
	if err != nil {
		return nil, internalError(err)
	}
	return toProductSummaries(ps), nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cs, err := u.categories.List(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return cs, nil
}

func (u *ProductUsecase) GetCategory(ctx context.Context, id int64) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, notFound("category")
	}
	if err != nil {
		return model.Category{}, internalError(err)
	}
	return c, nil
}

func (u *ProductUsecase) ListCategoryProducts(ctx context.Context, categoryID int64) ([]ProductSummary, error) {
	if _, err := u.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	ps, err := u.products.ListByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, internalError(err)
	}
	return toProductSummaries(ps), nil
}

func (u *ProductUsecase) findProduct(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, notFound("product")
	}
	p, err := u.products.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, notFound("product")
	}
	if err != nil {
		return model.Product{}, internalError(err)
	}
	return p, nil
}
