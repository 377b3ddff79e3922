package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistGormRepository struct {
	db *gorm.DB
}

func NewWishlistGormRepository(db *gorm.DB) *WishlistGormRepository {
	return &WishlistGormRepository{db: db}
}

func (r *WishlistGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.WishlistItem{}, err
	}
	return items, nil
}

func (r *WishlistGormRepository) FindByID(ctx context.Context, id int64) (model.WishlistItem, error) {
	var item model.WishlistItem
	if err := r.db.WithContext(ctx).Preload("Product.Category").First(&item, id).Error; err != nil {
		return model.WishlistItem{}, translate(err)
	}
	return item, nil
}

func (r *WishlistGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.WishlistItem, error) {
	var item model.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return model.WishlistItem{}, translate(err)
	}
	return item, nil
}

// ON CONFLICT DO NOTHING。並行toggleでも一意制約違反にならない
func (r *WishlistGormRepository) Insert(ctx context.Context, userID int64, productID int64) (bool, error) {
	item := model.WishlistItem{UserID: userID, ProductID: productID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *WishlistGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.WishlistItem{}, id)
	return affected(res)
}

func (r *WishlistGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.WishlistItem{}).Error
}
