package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, f *fixture, userID int64) usecase.OrderOutput {
	t.Helper()
	ctx := context.Background()
	c := f.category(t, "Cat "+nextSKU())
	p := f.product(t, c.ID, "Item", "10.00")
	_, err := f.cartItems.UpsertByUserAndProduct(ctx, userID, p.ID, 1)
	require.NoError(t, err)
	out, err := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, nil).CreateOrderFromCart(ctx, userID, usecase.CreateOrderInput{})
	require.NoError(t, err)
	return out
}

func TestAdminUpdateOrderStatus_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.user(t, "root")
	shopper := f.user(t, "alice")
	order := placeOrder(t, f, shopper.ID)
	uc := usecase.NewAdminOrderUsecase(f.tx, f.orders, f.orderItems)

	out, err := uc.UpdateStatus(ctx, admin.ID, order.ID, usecase.AdminUpdateOrderStatusInput{Status: "PAID"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, out.Status)

	//同じステータスはno-op
	out, err = uc.UpdateStatus(ctx, admin.ID, order.ID, usecase.AdminUpdateOrderStatusInput{Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, out.Status)

	_, err = uc.UpdateStatus(ctx, admin.ID, order.ID, usecase.AdminUpdateOrderStatusInput{Status: "delivered"})
	assert.True(t, errors.Is(err, usecase.ErrValidation))

	_, err = uc.UpdateStatus(ctx, admin.ID, order.ID, usecase.AdminUpdateOrderStatusInput{Status: "lost"})
	assert.True(t, errors.Is(err, usecase.ErrValidation))

	_, err = uc.UpdateStatus(ctx, admin.ID, 999, usecase.AdminUpdateOrderStatusInput{Status: "paid"})
	assert.True(t, errors.Is(err, usecase.ErrNotFound))

	for _, s := range []string{"shipped", "delivered"} {
		out, err = uc.UpdateStatus(ctx, admin.ID, order.ID, usecase.AdminUpdateOrderStatusInput{Status: s})
		require.NoError(t, err)
	}
	assert.Equal(t, model.OrderStatusDelivered, out.Status)

	_, err = uc.UpdateStatus(ctx, admin.ID, order.ID, usecase.AdminUpdateOrderStatusInput{Status: "cancelled"})
	assert.True(t, errors.Is(err, usecase.ErrValidation))

	action := model.AuditActionUpdateOrderStatus
	logs, err := f.audits.List(ctx, repo.AuditLogFilter{Action: &action})
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	//履歴は古い順
	history, err := usecase.NewAuditLogUsecase(f.audits).History(ctx, admin.ID, model.AuditResourceOrder, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.JSONEq(t, `{"status":"pending"}`, history[0].BeforeJSON)
	assert.JSONEq(t, `{"status":"delivered"}`, history[2].AfterJSON)

	_, err = usecase.NewAuditLogUsecase(f.audits).History(ctx, admin.ID, "invoice", order.ID)
	assert.True(t, errors.Is(err, usecase.ErrValidation))
}

func TestAdminListOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	placeOrder(t, f, alice.ID)
	placeOrder(t, f, bob.ID)
	uc := usecase.NewAdminOrderUsecase(f.tx, f.orders, f.orderItems)

	all, err := uc.List(ctx, repo.AdminOrderListFilter{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := uc.List(ctx, repo.AdminOrderListFilter{UserID: &alice.ID, Limit: 50})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].UserID)
	assert.Len(t, mine[0].Items, 1)

	_, err = uc.List(ctx, repo.AdminOrderListFilter{Status: "lost"})
	assert.True(t, errors.Is(err, usecase.ErrValidation))
}
