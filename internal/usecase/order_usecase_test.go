package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 決まった順に番号を返す
type seqNumbers struct {
	mu   sync.Mutex
	nums []string
	i    int
}

func (g *seqNumbers) NewOrderNumber() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.nums[g.i%len(g.nums)]
	g.i++
	return n
}

type recordingPublisher struct {
	events []model.OrderPlacedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, ev model.OrderPlacedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func newOrderUC(f *fixture, numbers usecase.OrderNumberGenerator, pub usecase.OrderEventPublisher) *usecase.OrderUsecase {
	return usecase.NewOrderUsecase(f.tx, f.orders, f.orderItems, numbers, pub, nil)
}

func TestCreateOrderFromCart_TotalsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	c := f.category(t, "Shirts")
	shirt := f.product(t, c.ID, "Shirt", "19.99")
	jeans := f.product(t, c.ID, "Jeans", "39.99")

	cart := usecase.NewCartUsecase(f.cartItems, f.products)
	_, err := cart.AddToCart(ctx, u.ID, usecase.AddCartInput{ProductID: shirt.ID, Quantity: ptr(int64(2))})
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, u.ID, usecase.AddCartInput{ProductID: jeans.ID})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	uc := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, pub)

	out, err := uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{ShippingAddress: "1-2-3 Tokyo"})
	require.NoError(t, err)

	assert.True(t, dec("79.97").Equal(out.TotalAmount), "total=%s", out.TotalAmount)
	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Equal(t, model.DefaultPaymentMethod, out.PaymentMethod)
	assert.Equal(t, "1-2-3 Tokyo", out.ShippingAddress)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, out.OrderNumber)
	require.Len(t, out.Items, 2)

	byProduct := map[int64]usecase.OrderItemOutput{}
	for _, it := range out.Items {
		byProduct[it.ProductID] = it
	}
	assert.Equal(t, int64(2), byProduct[shirt.ID].Quantity)
	assert.True(t, dec("19.99").Equal(byProduct[shirt.ID].Price))
	assert.Equal(t, "Jeans", byProduct[jeans.ID].ProductName)

	//カートは空
	lines, err := cart.ListCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.EventOrderPlaced, pub.events[0].Type)
	assert.Equal(t, out.ID, pub.events[0].OrderID)
	assert.True(t, dec("79.97").Equal(pub.events[0].TotalAmount))
	assert.Len(t, pub.events[0].Items, 2)
}

func TestCreateOrderFromCart_EmptyCartWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "bob")

	pub := &recordingPublisher{}
	uc := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, pub)

	_, err := uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrEmptyCart))

	assert.Zero(t, f.count(t, &model.Order{}))
	assert.Zero(t, f.count(t, &model.OrderItem{}))
	assert.Empty(t, pub.events)
}

func TestCreateOrderFromCart_PricesAreFrozen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "carol")
	c := f.category(t, "Shoes")
	p := f.product(t, c.ID, "Runner", "59.99")

	_, err := f.cartItems.UpsertByUserAndProduct(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)

	uc := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, nil)
	out, err := uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{})
	require.NoError(t, err)

	p.Price = dec("99.99")
	require.NoError(t, f.products.Update(ctx, p))

	got, err := uc.GetOrder(ctx, u.ID, out.ID)
	require.NoError(t, err)
	assert.True(t, dec("59.99").Equal(got.TotalAmount))
	require.Len(t, got.Items, 1)
	assert.True(t, dec("59.99").Equal(got.Items[0].Price))
}

func TestCreateOrderFromCart_RetriesOrderNumberCollision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "dave")
	c := f.category(t, "Kids")
	p := f.product(t, c.ID, "Tee", "14.99")

	numbers := &seqNumbers{nums: []string{"ORD-AAAAAAAA", "ORD-AAAAAAAA", "ORD-BBBBBBBB"}}
	uc := newOrderUC(f, numbers, nil)

	_, err := f.cartItems.UpsertByUserAndProduct(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	first, err := uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, "ORD-AAAAAAAA", first.OrderNumber)

	_, err = f.cartItems.UpsertByUserAndProduct(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	second, err := uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, "ORD-BBBBBBBB", second.OrderNumber)
	assert.True(t, dec("44.97").Equal(second.TotalAmount))

	assert.Equal(t, int64(2), f.count(t, &model.Order{}))
}

func TestCreateOrderFromCart_DeletedProductAborts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "erin")
	c := f.category(t, "Misc")
	p := f.product(t, c.ID, "Gone", "5.00")

	_, err := f.cartItems.UpsertByUserAndProduct(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.products.SoftDelete(ctx, p.ID))

	uc := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, nil)
	_, err = uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrValidation))

	assert.Zero(t, f.count(t, &model.Order{}))
	assert.Equal(t, int64(1), f.count(t, &model.CartItem{}))
}

func TestCreateOrderFromCart_PublishFailureKeepsOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "frank")
	c := f.category(t, "Bags")
	p := f.product(t, c.ID, "Tote", "10.00")

	_, err := f.cartItems.UpsertByUserAndProduct(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	pub := &recordingPublisher{err: errors.New("broker down")}
	uc := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, pub)

	out, err := uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{PaymentMethod: "paypal"})
	require.NoError(t, err)
	assert.Equal(t, "paypal", out.PaymentMethod)
	assert.Len(t, pub.events, 1)
	assert.Equal(t, int64(1), f.count(t, &model.Order{}))
}

func TestGetOrder_OtherUsersOrderIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "grace")
	other := f.user(t, "heidi")
	c := f.category(t, "Hats")
	p := f.product(t, c.ID, "Cap", "12.00")

	_, err := f.cartItems.UpsertByUserAndProduct(ctx, owner.ID, p.ID, 1)
	require.NoError(t, err)

	uc := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, nil)
	out, err := uc.CreateOrderFromCart(ctx, owner.ID, usecase.CreateOrderInput{})
	require.NoError(t, err)

	_, err = uc.GetOrder(ctx, other.ID, out.ID)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))

	mine, err := uc.ListOrders(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Len(t, mine[0].Items, 1)

	theirs, err := uc.ListOrders(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCreateOrderFromCart_RequiresUser(t *testing.T) {
	f := newFixture(t)
	uc := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, nil)

	_, err := uc.CreateOrderFromCart(context.Background(), 0, usecase.CreateOrderInput{})
	assert.True(t, errors.Is(err, usecase.ErrAuthentication))
}

// WithinTxに渡すTxReposを差し替える
type wrappedTx struct {
	inner repo.TransactionManager
	wrap  func(repo.TxRepos) repo.TxRepos
}

func (m wrappedTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return m.inner.WithinTx(ctx, func(r repo.TxRepos) error {
		return fn(m.wrap(r))
	})
}

type failingItemsRepos struct {
	repo.TxRepos
}

func (failingItemsRepos) OrderItems() repo.OrderItemRepository { return failingOrderItems{} }

type failingOrderItems struct {
	repo.OrderItemRepository
}

func (failingOrderItems) CreateBulk(context.Context, int64, []model.OrderItem) ([]model.OrderItem, error) {
	return nil, errors.New("disk full")
}

// 最後の1行を消し損ねる（別リクエストが先に消した状態）
type shortDeleteRepos struct {
	repo.TxRepos
}

func (r shortDeleteRepos) CartItems() repo.CartItemRepository {
	return shortDeleteCart{CartItemRepository: r.TxRepos.CartItems()}
}

type shortDeleteCart struct {
	repo.CartItemRepository
}

func (c shortDeleteCart) DeleteByIDs(ctx context.Context, userID int64, ids []int64) (int64, error) {
	return c.CartItemRepository.DeleteByIDs(ctx, userID, ids[:len(ids)-1])
}

func TestCreateOrderFromCart_FailureAfterInsertRollsBack(t *testing.T) {
	for _, tc := range []struct {
		name    string
		wrap    func(repo.TxRepos) repo.TxRepos
		wantErr error
	}{
		{
			name:    "order items insert fails",
			wrap:    func(r repo.TxRepos) repo.TxRepos { return failingItemsRepos{TxRepos: r} },
			wantErr: usecase.ErrInternal,
		},
		{
			name:    "cart changed during checkout",
			wrap:    func(r repo.TxRepos) repo.TxRepos { return shortDeleteRepos{TxRepos: r} },
			wantErr: usecase.ErrConflict,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			u := f.user(t, "erin")
			c := f.category(t, "Shirts")
			shirt := f.product(t, c.ID, "Shirt", "19.99")
			jeans := f.product(t, c.ID, "Jeans", "39.99")
			_, err := f.cartItems.UpsertByUserAndProduct(ctx, u.ID, shirt.ID, 2)
			require.NoError(t, err)
			_, err = f.cartItems.UpsertByUserAndProduct(ctx, u.ID, jeans.ID, 1)
			require.NoError(t, err)

			pub := &recordingPublisher{}
			uc := usecase.NewOrderUsecase(wrappedTx{inner: f.tx, wrap: tc.wrap}, f.orders, f.orderItems, usecase.UUIDOrderNumberGenerator{}, pub, nil)

			_, err = uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "err=%v", err)

			//注文は残らず、カートもそのまま
			assert.Zero(t, f.count(t, &model.Order{}))
			assert.Zero(t, f.count(t, &model.OrderItem{}))
			assert.Equal(t, int64(2), f.count(t, &model.CartItem{}))
			assert.Empty(t, pub.events)
		})
	}
}

// 呼ばれた時点でリクエスト側のctxを止め、送信用ctxが生きているかを見る
type cancelObservingPublisher struct {
	cancelRequest func()
	hasDeadline   bool
	deadline      time.Time
	errAfter      error
}

func (p *cancelObservingPublisher) PublishOrderPlaced(ctx context.Context, _ model.OrderPlacedEvent) error {
	p.cancelRequest()
	p.deadline, p.hasDeadline = ctx.Deadline()
	p.errAfter = ctx.Err()
	return nil
}

func TestCreateOrderFromCart_PublishIsDetachedFromRequest(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "frank")
	c := f.category(t, "Shoes")
	p := f.product(t, c.ID, "Runner", "59.99")
	_, err := f.cartItems.UpsertByUserAndProduct(context.Background(), u.ID, p.ID, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pub := &cancelObservingPublisher{cancelRequest: cancel}
	uc := newOrderUC(f, usecase.UUIDOrderNumberGenerator{}, pub)

	started := time.Now()
	_, err = uc.CreateOrderFromCart(ctx, u.ID, usecase.CreateOrderInput{})
	require.NoError(t, err)

	require.True(t, pub.hasDeadline)
	assert.WithinDuration(t, started, pub.deadline, 5*time.Second)
	assert.NoError(t, pub.errAfter)
}
