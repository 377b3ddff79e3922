package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleWishlist_IsAnInvolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	c := f.category(t, "Shoes")
	p := f.product(t, c.ID, "Runner", "59.99")
	uc := usecase.NewWishlistUsecase(f.tx, f.wishlist, f.products)

	res, err := uc.Toggle(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.WishlistAdded, res)

	items, err := uc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].Product.ID)

	res, err = uc.Toggle(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.WishlistRemoved, res)

	items, err = uc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestToggleWishlist_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	uc := usecase.NewWishlistUsecase(f.tx, f.wishlist, f.products)

	_, err := uc.Toggle(ctx, u.ID, 0)
	assert.True(t, errors.Is(err, usecase.ErrValidation))

	_, err = uc.Toggle(ctx, u.ID, 404)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
}

func TestWishlistAddIsIdempotentAndRemoveChecksOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	other := f.user(t, "mallory")
	c := f.category(t, "Shoes")
	p := f.product(t, c.ID, "Runner", "59.99")
	uc := usecase.NewWishlistUsecase(f.tx, f.wishlist, f.products)

	first, created, err := uc.Add(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := uc.Add(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	err = uc.Remove(ctx, other.ID, first.ID)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))

	require.NoError(t, uc.Remove(ctx, u.ID, first.ID))
	items, err := uc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
