package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type ToggleResult string

const (
	WishlistAdded   ToggleResult = "added"
	WishlistRemoved ToggleResult = "removed"
)

type WishlistUsecase struct {
	tx       repo.TransactionManager
	wishlist repo.WishlistRepository
	products repo.ProductRepository
}

func NewWishlistUsecase(tx repo.TransactionManager, wishlist repo.WishlistRepository, products repo.ProductRepository) *WishlistUsecase {
	return &WishlistUsecase{tx: tx, wishlist: wishlist, products: products}
}

func (u *WishlistUsecase) List(ctx context.Context, userID int64) ([]WishlistOutput, error) {
	if userID <= 0 {
		return nil, unauthorized()
	}
	items, err := u.wishlist.ListByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]WishlistOutput, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		out = append(out, toWishlistOutput(it))
	}
	return out, nil
}

// あれば外す、無ければ入れる
func (u *WishlistUsecase) Toggle(ctx context.Context, userID int64, productID int64) (ToggleResult, error) {
	if err := u.checkProduct(ctx, userID, productID); err != nil {
		return "", err
	}

	var result ToggleResult
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.Wishlist().FindByUserAndProduct(ctx, userID, productID)
		switch {
		case err == nil:
			if err := r.Wishlist().DeleteByID(ctx, item.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
				return internalError(err)
			}
			result = WishlistRemoved
			return nil
		case errors.Is(err, repo.ErrNotFound):
			if _, err := r.Wishlist().Insert(ctx, userID, productID); err != nil {
				return internalError(err)
			}
			result = WishlistAdded
			return nil
		default:
			return internalError(err)
		}
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// 既にあればそのまま返す（created=false）
func (u *WishlistUsecase) Add(ctx context.Context, userID int64, productID int64) (WishlistOutput, bool, error) {
	if err := u.checkProduct(ctx, userID, productID); err != nil {
		return WishlistOutput{}, false, err
	}

	created, err := u.wishlist.Insert(ctx, userID, productID)
	if err != nil {
		return WishlistOutput{}, false, internalError(err)
	}
	item, err := u.wishlist.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return WishlistOutput{}, false, internalError(err)
	}
	return toWishlistOutput(item), created, nil
}

func (u *WishlistUsecase) Remove(ctx context.Context, userID int64, itemID int64) error {
	if userID <= 0 {
		return unauthorized()
	}
	item, err := u.wishlist.FindByID(ctx, itemID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && item.UserID != userID) {
		return notFound("wishlist item")
	}
	if err != nil {
		return internalError(err)
	}
	if err := u.wishlist.DeleteByID(ctx, item.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("wishlist item")
		}
		return internalError(err)
	}
	return nil
}

func (u *WishlistUsecase) checkProduct(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return unauthorized()
	}
	if productID <= 0 {
		return NewError(ErrValidation, "product_id is required")
	}
	_, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("product")
	}
	if err != nil {
		return internalError(err)
	}
	return nil
}

func toWishlistOutput(it model.WishlistItem) WishlistOutput {
	out := WishlistOutput{ID: it.ID, CreatedAt: it.CreatedAt}
	if it.Product != nil {
		out.Product = toProductSummary(*it.Product)
	}
	return out
}
