package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//FOR UPDATEで取得（ステータス更新用）
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	//order_number重複時はErrDuplicateKey（savepointで巻き戻すので外側のtxは継続できる）
	Create(ctx context.Context, order model.Order) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, error)
}

// 管理画面用の絞り込み
type AdminOrderListFilter struct {
	Status model.OrderStatus
	UserID *int64
	Limit  int
}
