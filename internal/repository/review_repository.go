package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 集計値（平均はusecase側でdecimal計算する）
type ReviewStats struct {
	Count int64
	Total int64
}

type ReviewRepository interface {
	// (product_id, user_id) で上書き保存
	Upsert(ctx context.Context, r model.Review) (model.Review, error)
	FindByID(ctx context.Context, id int64) (model.Review, error)
	FindByProductAndUser(ctx context.Context, productID int64, userID int64) (model.Review, error)
	//Userをpreloadして新しい順
	ListByProductID(ctx context.Context, productID int64) ([]model.Review, error)
	DeleteByID(ctx context.Context, id int64) error
	Stats(ctx context.Context, productID int64) (ReviewStats, error)
}
