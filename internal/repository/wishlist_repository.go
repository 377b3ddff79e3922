package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)
	FindByID(ctx context.Context, id int64) (model.WishlistItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.WishlistItem, error)
	//既にあれば何もしない（created=false）
	Insert(ctx context.Context, userID int64, productID int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteByProductID(ctx context.Context, productID int64) error
}
