package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 削除されていない商品を、カテゴリ/価格帯/検索/ソート付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{}).Preload("Category")

	// カテゴリ名の部分一致（大文字小文字無視）
	if c := strings.TrimSpace(q.Category); c != "" {
		tx = tx.Where(
			"category_id IN (?)",
			r.db.WithContext(ctx).Model(&model.Category{}).Select("id").Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(c)),
		)
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		like := likePattern(s)
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	//sort
	switch q.Sort {
	case repo.SortPriceLow:
		tx = tx.Order("price asc").Order("id asc")
	case repo.SortPriceHigh:
		tx = tx.Order("price desc").Order("id asc")
	case repo.SortRating:
		tx = tx.Order("rating desc").Order("id asc")
	case repo.SortNewest:
		tx = tx.Order("created_at desc").Order("id desc")
	default:
		tx = tx.Order("id asc")
	}

	var products []model.Product
	if err := tx.Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&p, id).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) FindBySKU(ctx context.Context, sku string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Category").Where("sku = ?", sku).First(&p).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 複数IDをまとめて取得（削除済みは含まない）
func (r *ProductGormRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	out := make(map[int64]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).Preload("Category").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductGormRepository) ListFeatured(ctx context.Context, minRating decimal.Decimal, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("rating >= ?", minRating).
		Order("id asc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 同じカテゴリの他の商品
func (r *ProductGormRepository) ListRelated(ctx context.Context, p model.Product, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ? AND id <> ?", p.CategoryID, p.ID).
		Order("id asc").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *ProductGormRepository) ListByCategoryID(ctx context.Context, categoryID int64) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p.Category = nil
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 商品の更新（rating/reviews_countは対象外）
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	p.Category = nil
	res := r.db.WithContext(ctx).
		Model(&p).
		Select(
			"name", "description", "price", "original_price", "discount", "sku",
			"category_id", "in_stock", "colors", "sizes", "features", "images", "updated_at",
		).
		Updates(&p)
	return affected(res)
}

func (r *ProductGormRepository) SetInStock(ctx context.Context, id int64, inStock bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Update("in_stock", inStock)
	return affected(res)
}

// reviewsの集計結果をキャッシュ列へ
func (r *ProductGormRepository) UpdateRatingCache(ctx context.Context, id int64, rating decimal.Decimal, reviewsCount int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":        rating,
			"reviews_count": reviewsCount,
		})
	return affected(res)
}

// 商品削除
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	return affected(res)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// 入力の % _ \ は文字そのものとして扱う
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
