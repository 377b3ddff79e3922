package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反
var ErrDuplicateKey = errors.New("duplicate key")

// 一覧検索
type ProductListQuery struct {
	Category string
	Search   string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

const (
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortRating    = "rating"
	SortNewest    = "newest"
)

// 商品の永続化（保存・取得）だけを約束。
// 取得系はCategoryをpreloadして返す。
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	//行ロック付きで取得（review集計の直列化に使う）
	FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error)
	FindBySKU(ctx context.Context, sku string) (model.Product, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error)
	ListFeatured(ctx context.Context, minRating decimal.Decimal, limit int) ([]model.Product, error)
	ListRelated(ctx context.Context, p model.Product, limit int) ([]model.Product, error)
	ListByCategoryID(ctx context.Context, categoryID int64) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	//カタログ項目のみ更新（rating/reviews_countは触らない）
	Update(ctx context.Context, p model.Product) error
	SetInStock(ctx context.Context, id int64, inStock bool) error
	UpdateRatingCache(ctx context.Context, id int64, rating decimal.Decimal, reviewsCount int64) error
	SoftDelete(ctx context.Context, id int64) error
}
