package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart_MergesDuplicateProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	c := f.category(t, "Shirts")
	p := f.product(t, c.ID, "Shirt", "19.99")
	uc := usecase.NewCartUsecase(f.cartItems, f.products)

	first, err := uc.AddToCart(ctx, u.ID, usecase.AddCartInput{ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Quantity)

	second, err := uc.AddToCart(ctx, u.ID, usecase.AddCartInput{ProductID: p.ID, Quantity: ptr(int64(2))})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(3), second.Quantity)
	assert.True(t, dec("59.97").Equal(second.TotalPrice))

	lines, err := uc.ListCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Shirts", lines[0].Product.Category.Name)
}

func TestAddToCart_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	c := f.category(t, "Shirts")
	p := f.product(t, c.ID, "Shirt", "19.99")
	soldOut := f.product(t, c.ID, "Sold Out", "9.99")
	require.NoError(t, f.products.SetInStock(ctx, soldOut.ID, false))
	uc := usecase.NewCartUsecase(f.cartItems, f.products)

	cases := []struct {
		name string
		in   usecase.AddCartInput
		want error
	}{
		{"zero quantity", usecase.AddCartInput{ProductID: p.ID, Quantity: ptr(int64(0))}, usecase.ErrValidation},
		{"missing product id", usecase.AddCartInput{}, usecase.ErrValidation},
		{"unknown product", usecase.AddCartInput{ProductID: 999}, usecase.ErrNotFound},
		{"out of stock", usecase.AddCartInput{ProductID: soldOut.ID}, usecase.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AddToCart(ctx, u.ID, tc.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}

	_, err := uc.AddToCart(ctx, 0, usecase.AddCartInput{ProductID: p.ID})
	assert.True(t, errors.Is(err, usecase.ErrAuthentication))
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	other := f.user(t, "mallory")
	c := f.category(t, "Shirts")
	p := f.product(t, c.ID, "Shirt", "19.99")
	uc := usecase.NewCartUsecase(f.cartItems, f.products)

	line, err := uc.AddToCart(ctx, u.ID, usecase.AddCartInput{ProductID: p.ID})
	require.NoError(t, err)

	_, err = uc.SetQuantity(ctx, other.ID, line.ID, 5)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))

	updated, err := uc.SetQuantity(ctx, u.ID, line.ID, 4)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(4), updated.Quantity)
	assert.True(t, dec("79.96").Equal(updated.TotalPrice))

	removed, err := uc.SetQuantity(ctx, u.ID, line.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, removed)

	lines, err := uc.ListCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = uc.SetQuantity(ctx, u.ID, line.ID, 1)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
}

func TestCartTotalAndRemoveLine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	c := f.category(t, "Shirts")
	shirt := f.product(t, c.ID, "Shirt", "19.99")
	jeans := f.product(t, c.ID, "Jeans", "39.99")
	uc := usecase.NewCartUsecase(f.cartItems, f.products)

	_, err := uc.AddToCart(ctx, u.ID, usecase.AddCartInput{ProductID: shirt.ID, Quantity: ptr(int64(2))})
	require.NoError(t, err)
	jl, err := uc.AddToCart(ctx, u.ID, usecase.AddCartInput{ProductID: jeans.ID})
	require.NoError(t, err)

	total, err := uc.CartTotal(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, dec("79.97").Equal(total.Total), "total=%s", total.Total)
	assert.Equal(t, int64(3), total.Count)
	assert.Len(t, total.Items, 2)

	require.NoError(t, uc.RemoveLine(ctx, u.ID, jl.ID))
	total, err = uc.CartTotal(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, dec("39.98").Equal(total.Total))
	assert.Equal(t, int64(2), total.Count)

	err = uc.RemoveLine(ctx, u.ID, jl.ID)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
}
