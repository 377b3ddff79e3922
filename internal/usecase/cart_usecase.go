package usecase

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type CartUsecase struct {
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
}

// DI
func NewCartUsecase(cartItems repo.CartItemRepository, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{cartItems: cartItems, products: products}
}

type AddCartInput struct {
	ProductID int64
	//nilなら1
	Quantity *int64
}

func (u *CartUsecase) ListCart(ctx context.Context, userID int64) ([]CartLineOutput, error) {
	if userID <= 0 {
		return nil, unauthorized()
	}
	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(err)
	}

	out := make([]CartLineOutput, 0, len(items))
	for _, it := range items {
		//削除済み商品の明細は出さない
		if it.Product == nil {
			continue
		}
		out = append(out, toCartLineOutput(it))
	}
	return out, nil
}

// 同じ商品なら数量を足す
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartLineOutput, error) {
	if userID <= 0 {
		return CartLineOutput{}, unauthorized()
	}
	if in.ProductID <= 0 {
		return CartLineOutput{}, NewFieldError("product_id", "This field is required.")
	}
	qty := int64(1)
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty < 1 {
		return CartLineOutput{}, NewFieldError("quantity", "Ensure this value is greater than or equal to 1.")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartLineOutput{}, notFound("product")
	}
	if err != nil {
		return CartLineOutput{}, internalError(err)
	}
	if !p.InStock {
		return CartLineOutput{}, NewError(ErrValidation, "product is out of stock")
	}

	item, err := u.cartItems.UpsertByUserAndProduct(ctx, userID, p.ID, qty)
	if err != nil {
		return CartLineOutput{}, internalError(err)
	}
	return toCartLineOutput(item), nil
}

// 0以下なら明細を消してnilを返す
func (u *CartUsecase) SetQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) (*CartLineOutput, error) {
	item, err := u.ownedItem(ctx, userID, cartItemID)
	if err != nil {
		return nil, err
	}

	if qty <= 0 {
		if err := u.cartItems.DeleteByID(ctx, item.ID); err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, internalError(err)
		}
		return nil, nil
	}

	if err := u.cartItems.UpdateQuantity(ctx, item.ID, qty); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("cart item")
		}
		return nil, internalError(err)
	}
	item.Quantity = qty
	out := toCartLineOutput(item)
	return &out, nil
}

func (u *CartUsecase) RemoveLine(ctx context.Context, userID int64, cartItemID int64) error {
	item, err := u.ownedItem(ctx, userID, cartItemID)
	if err != nil {
		return err
	}
	if err := u.cartItems.DeleteByID(ctx, item.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart item")
		}
		return internalError(err)
	}
	return nil
}

// 現在価格での合計と数量
func (u *CartUsecase) CartTotal(ctx context.Context, userID int64) (CartTotalOutput, error) {
	lines, err := u.ListCart(ctx, userID)
	if err != nil {
		return CartTotalOutput{}, err
	}

	out := CartTotalOutput{Total: decimal.Zero, Items: lines}
	for _, l := range lines {
		out.Total = out.Total.Add(l.TotalPrice)
		out.Count += l.Quantity
	}
	return out, nil
}

// 他人の明細は存在しない扱い（404）
func (u *CartUsecase) ownedItem(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error) {
	if userID <= 0 {
		return model.CartItem{}, unauthorized()
	}
	if cartItemID <= 0 {
		return model.CartItem{}, notFound("cart item")
	}

	item, err := u.cartItems.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, notFound("cart item")
	}
	if err != nil {
		return model.CartItem{}, internalError(err)
	}
	if item.UserID != userID {
		return model.CartItem{}, notFound("cart item")
	}
	return item, nil
}
