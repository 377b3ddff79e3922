package repository

import (
	"context"
	"database/sql"
	"errors"

	repo "storefront/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// serialization_failure / deadlock_detected
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

const defaultTxAttempts = 3

type txReposGorm struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartItemRepository
	products   repo.ProductRepository
	categories repo.CategoryRepository
	reviews    repo.ReviewRepository
	wishlist   repo.WishlistRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *txReposGorm) Products() repo.ProductRepository     { return r.products }
func (r *txReposGorm) Categories() repo.CategoryRepository  { return r.categories }
func (r *txReposGorm) Reviews() repo.ReviewRepository       { return r.reviews }
func (r *txReposGorm) Wishlist() repo.WishlistRepository    { return r.wishlist }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

type TxManagerGorm struct {
	db          *gorm.DB
	maxAttempts int
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db, maxAttempts: defaultTxAttempts}
}

// PostgreSQLではSERIALIZABLEで実行し、直列化失敗/デッドロックはfnごとやり直す。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	var opts []*sql.TxOptions
	if tm.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	var err error
	for attempt := 1; attempt <= tm.maxAttempts; attempt++ {
		err = tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			//repoはtxを持ったDBで作り直す
			return fn(newTxRepos(tx))
		}, opts...)
		if err == nil || !isRetryableTxError(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func newTxRepos(tx *gorm.DB) *txReposGorm {
	return &txReposGorm{
		orders:     NewOrderGormRepository(tx),
		orderItems: NewOrderItemGormRepository(tx),
		cartItems:  NewCartItemGormRepository(tx),
		products:   NewProductGormRepository(tx),
		categories: NewCategoryGormRepository(tx),
		reviews:    NewReviewGormRepository(tx),
		wishlist:   NewWishlistGormRepository(tx),
		auditLogs:  NewAuditLogGormRepository(tx),
	}
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}
