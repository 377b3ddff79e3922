package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

const (
	// order_number衝突時の再採番回数
	maxOrderNumberAttempts = 5
	//イベント送信の待ち時間上限
	publishTimeout = 2 * time.Second
)

// 確定済み注文を外へ通知する
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev model.OrderPlacedEvent) error
}

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	numbers    OrderNumberGenerator
	events     OrderEventPublisher
	logger     *log.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	numbers OrderNumberGenerator,
	events OrderEventPublisher,
	logger *log.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:         tx,
		orders:     orders,
		orderItems: orderItems,
		numbers:    numbers,
		events:     events,
		logger:     logger,
	}
}

type CreateOrderInput struct {
	ShippingAddress string
	//空ならcredit_card
	PaymentMethod string
}

// カートから注文を作る。
// カート読み取り・合計計算・注文/明細作成・カート削除を1トランザクションで行う。
func (u *OrderUsecase) CreateOrderFromCart(ctx context.Context, userID int64, in CreateOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, unauthorized()
	}
	address := strings.TrimSpace(in.ShippingAddress)
	payment := strings.TrimSpace(in.PaymentMethod)
	if payment == "" {
		payment = model.DefaultPaymentMethod
	}
	if len(payment) > 50 {
		return OrderOutput{}, NewFieldError("payment_method", "Ensure this field has no more than 50 characters.")
	}

	var (
		order model.Order
		items []model.OrderItem
	)

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カートのスナップショット（行ロック）
		lines, err := r.CartItems().LockByUserID(ctx, userID)
		if err != nil {
			return internalError(err)
		}
		if len(lines) == 0 {
			return NewError(ErrEmptyCart, "Cart is empty")
		}

		productIDs := make([]int64, 0, len(lines))
		lineIDs := make([]int64, 0, len(lines))
		for _, l := range lines {
			productIDs = append(productIDs, l.ProductID)
			lineIDs = append(lineIDs, l.ID)
		}
		products, err := r.Products().FindByIDs(ctx, productIDs)
		if err != nil {
			return internalError(err)
		}

		//現在価格で確定（以後は変わらない）
		total := decimal.Zero
		snapshot := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok {
				return NewError(ErrValidation, fmt.Sprintf("product %d is no longer available", l.ProductID))
			}
			total = total.Add(lineTotal(p.Price, l.Quantity))
			snapshot = append(snapshot, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				Quantity:            l.Quantity,
				Price:               p.Price,
			})
		}

		created, err := u.insertOrder(ctx, r, model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			TotalAmount:     total,
			ShippingAddress: address,
			PaymentMethod:   payment,
		})
		if err != nil {
			return err
		}

		//注文明細一括作成
		savedItems, err := r.OrderItems().CreateBulk(ctx, created.ID, snapshot)
		if err != nil {
			return internalError(err)
		}

		//スナップショットに含めた明細だけを消す
		deleted, err := r.CartItems().DeleteByIDs(ctx, userID, lineIDs)
		if err != nil {
			return internalError(err)
		}
		if deleted != int64(len(lineIDs)) {
			return NewError(ErrConflict, "cart changed while placing the order, please retry")
		}

		order = created
		items = savedItems
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.publishPlaced(ctx, order, items)
	return toOrderOutput(order, items), nil
}

// savepoint内でINSERTし、order_numberが衝突したら採番し直す
func (u *OrderUsecase) insertOrder(ctx context.Context, r repo.TxRepos, o model.Order) (model.Order, error) {
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		o.OrderNumber = u.numbers.NewOrderNumber()
		created, err := r.Orders().Create(ctx, o)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repo.ErrDuplicateKey) {
			return model.Order{}, internalError(err)
		}
		if u.logger != nil {
			u.logger.Warnf("order number collision (%s), attempt %d", o.OrderNumber, attempt)
		}
	}
	return model.Order{}, internalError(errors.New("could not allocate a unique order number"))
}

// 送信失敗は注文に影響させない（ログだけ）
func (u *OrderUsecase) publishPlaced(ctx context.Context, o model.Order, items []model.OrderItem) {
	if u.events == nil {
		return
	}
	ev := model.OrderPlacedEvent{
		Type:        model.EventOrderPlaced,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		Items:       make([]model.OrderPlacedItem, 0, len(items)),
		PlacedAt:    o.CreatedAt,
	}
	for _, it := range items {
		ev.Items = append(ev.Items, model.OrderPlacedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	//リクエストのキャンセルとは切り離す
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := u.events.PublishOrderPlaced(pubCtx, ev); err != nil && u.logger != nil {
		u.logger.Errorf("publish %s for order %s: %v", model.EventOrderPlaced, o.OrderNumber, err)
	}
}

// 自分の注文一覧（新しい順）
func (u *OrderUsecase) ListOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return nil, unauthorized()
	}
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}
	return u.withItems(ctx, orders)
}

// 他人の注文は404
func (u *OrderUsecase) GetOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, unauthorized()
	}
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && o.UserID != userID) {
		return OrderOutput{}, notFound("order")
	}
	if err != nil {
		return OrderOutput{}, internalError(err)
	}

	items, err := u.orderItems.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, internalError(err)
	}
	return toOrderOutput(o, items), nil
}

func (u *OrderUsecase) withItems(ctx context.Context, orders []model.Order) ([]OrderOutput, error) {
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
