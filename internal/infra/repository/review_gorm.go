package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

// INSERT ... ON CONFLICT (product_id, user_id) DO UPDATE
func (r *ReviewGormRepository) Upsert(ctx context.Context, rv model.Review) (model.Review, error) {
	rv.ID = 0
	rv.User = nil
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(&rv).Error
	if err != nil {
		return model.Review{}, translate(err)
	}

	//conflict時のIDはドライバ依存なので取り直す
	return r.FindByProductAndUser(ctx, rv.ProductID, rv.UserID)
}

func (r *ReviewGormRepository) FindByID(ctx context.Context, id int64) (model.Review, error) {
	var rv model.Review
	if err := r.db.WithContext(ctx).Preload("User").First(&rv, id).Error; err != nil {
		return model.Review{}, translate(err)
	}
	return rv, nil
}

func (r *ReviewGormRepository) FindByProductAndUser(ctx context.Context, productID int64, userID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&rv).Error
	if err != nil {
		return model.Review{}, translate(err)
	}
	return rv, nil
}

// 新しい順
func (r *ReviewGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Review, error) {
	var rvs []model.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at desc").
		Order("id desc").
		Find(&rvs).Error
	if err != nil {
		return []model.Review{}, err
	}
	return rvs, nil
}

func (r *ReviewGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	return affected(res)
}

func (r *ReviewGormRepository) Stats(ctx context.Context, productID int64) (repo.ReviewStats, error) {
	var st repo.ReviewStats
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS total").
		Where("product_id = ?", productID).
		Scan(&st).Error
	if err != nil {
		return repo.ReviewStats{}, err
	}
	return st, nil
}
