package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type AdminOrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, orderItems repo.OrderItemRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, orders: orders, orderItems: orderItems}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, NewFieldError("status", fmt.Sprintf("%q is not a valid choice.", f.Status))
	}
	orders, err := u.orders.ListAdmin(ctx, f)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, internalError(err)
		}
		out = append(out, toOrderOutput(o, items))
	}
	return out, nil
}

// ステータス更新（許可された遷移のみ）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorAdminUserID <= 0 {
		return OrderOutput{}, unauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, notFound("order")
	}

	next := model.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !next.Valid() {
		return OrderOutput{}, NewFieldError("status", fmt.Sprintf("%q is not a valid choice.", in.Status))
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("order")
		}
		if err != nil {
			return internalError(err)
		}

		// すでに同じなら何もしない（200）
		if o.Status != next {
			if !o.Status.CanTransitionTo(next) {
				return NewError(ErrValidation, fmt.Sprintf("cannot change order status from %s to %s", o.Status, next))
			}
			if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
				return internalError(err)
			}
			if err := recordAuditOrInternal(ctx, r, actorAdminUserID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
				map[string]model.OrderStatus{"status": o.Status},
				map[string]model.OrderStatus{"status": next},
			); err != nil {
				return err
			}
			o.Status = next
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return internalError(err)
		}
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
