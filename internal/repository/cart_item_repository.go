package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartItemRepository interface {
	//Product(+Category)をpreloadして返す
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	//注文確定用：行ロックして取得
	LockByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	// 同一商品はプラス
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	//削除件数を返す
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int64, error)
	DeleteByProductID(ctx context.Context, productID int64) error
}
