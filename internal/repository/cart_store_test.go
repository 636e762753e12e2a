package repository

import (
	"testing"

	"github.com/storefront-go/cart-controller/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartWithOneLine() *Cart {
	cart := NewCart("cart-1", "user-1")
	_ = cart.AddLine(entity.CartLine{ID: "line-1", ProductID: "prod-1", UnitPrice: 10.0, Quantity: 2})
	return cart
}

func TestCart_AddLine(t *testing.T) {
	cart := NewCart("cart-1", "user-1")

	err := cart.AddLine(entity.CartLine{ID: "line-1", ProductID: "prod-1", UnitPrice: 10.0, Quantity: 2})

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_AddLine_MergesExistingProduct(t *testing.T) {
	cart := cartWithOneLine()

	err := cart.AddLine(entity.CartLine{ID: "line-2", ProductID: "prod-1", UnitPrice: 10.0, Quantity: 3})

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCart_AddLine_Validation(t *testing.T) {
	cart := NewCart("cart-1", "user-1")

	assert.ErrorIs(t, cart.AddLine(entity.CartLine{Quantity: 1}), ErrInvalidLine)
	assert.ErrorIs(t, cart.AddLine(entity.CartLine{ProductID: "prod-1", Quantity: 0}), ErrInvalidQuantity)
}

func TestCart_SetLineQuantity(t *testing.T) {
	cart := cartWithOneLine()

	require.NoError(t, cart.SetLineQuantity("prod-1", 7))
	assert.Equal(t, 7, cart.Items[0].Quantity)

	assert.ErrorIs(t, cart.SetLineQuantity("prod-1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.SetLineQuantity("prod-9", 1), ErrLineNotFound)
}

func TestCart_RemoveLine(t *testing.T) {
	cart := cartWithOneLine()

	require.NoError(t, cart.RemoveLine("prod-1"))
	assert.Empty(t, cart.Items)

	assert.ErrorIs(t, cart.RemoveLine("prod-1"), ErrLineNotFound)
}
