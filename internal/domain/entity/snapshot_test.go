package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoLineCart() []CartLine {
	return []CartLine{
		{ID: "line-1", ProductID: "prod-1", ProductName: "Espresso Beans", UnitPrice: 10.0, Quantity: 2},
		{ID: "line-2", ProductID: "prod-2", ProductName: "Kettle", UnitPrice: 20.0, Quantity: 1},
	}
}

func TestNewCartSnapshot_ComputesAggregates(t *testing.T) {
	snap := NewCartSnapshot("cart-1", "user-1", twoLineCart())

	assert.Equal(t, 40.0, snap.Total)
	assert.Equal(t, 3, snap.ItemCount)
	assert.Len(t, snap.Lines, 2)
}

func TestNewCartSnapshot_DropsNonPositiveQuantities(t *testing.T) {
	lines := append(twoLineCart(), CartLine{ProductID: "prod-3", UnitPrice: 5.0, Quantity: 0})

	snap := NewCartSnapshot("cart-1", "user-1", lines)

	assert.Len(t, snap.Lines, 2)
	_, ok := snap.Line("prod-3")
	assert.False(t, ok)
}

func TestNewCartSnapshot_CopiesInput(t *testing.T) {
	lines := twoLineCart()
	snap := NewCartSnapshot("cart-1", "user-1", lines)

	lines[0].Quantity = 99

	got, ok := snap.Line("prod-1")
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
}

func TestWithLineQuantity_ReturnsNewSnapshot(t *testing.T) {
	snap := NewCartSnapshot("cart-1", "user-1", twoLineCart())

	next, err := snap.WithLineQuantity("prod-1", 5)
	require.NoError(t, err)

	gotNext, _ := next.Line("prod-1")
	assert.Equal(t, 5, gotNext.Quantity)
	assert.Equal(t, 70.0, next.Total)
	assert.Equal(t, 6, next.ItemCount)

	// The original snapshot is untouched.
	gotOrig, _ := snap.Line("prod-1")
	assert.Equal(t, 2, gotOrig.Quantity)
	assert.Equal(t, 40.0, snap.Total)
}

func TestWithLineQuantity_RejectsNonPositive(t *testing.T) {
	snap := NewCartSnapshot("cart-1", "user-1", twoLineCart())

	_, err := snap.WithLineQuantity("prod-1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestWithoutLine_RemovesAndRecomputes(t *testing.T) {
	snap := NewCartSnapshot("cart-1", "user-1", twoLineCart())

	next := snap.WithoutLine("prod-1")

	_, ok := next.Line("prod-1")
	assert.False(t, ok)
	assert.Equal(t, 20.0, next.Total)
	assert.Equal(t, 1, next.ItemCount)
	assert.Len(t, snap.Lines, 2)
}

func TestWithLineRestored_ReinsertsAtOriginalIndex(t *testing.T) {
	snap := NewCartSnapshot("cart-1", "user-1", twoLineCart())
	removed, _ := snap.Line("prod-1")

	next := snap.WithoutLine("prod-1")
	restored := next.WithLineRestored(removed, 0)

	require.Len(t, restored.Lines, 2)
	assert.Equal(t, "prod-1", restored.Lines[0].ProductID)
	assert.Equal(t, 40.0, restored.Total)
	assert.Equal(t, 3, restored.ItemCount)
}

func TestWithLineRestored_OverwritesExistingLine(t *testing.T) {
	snap := NewCartSnapshot("cart-1", "user-1", twoLineCart())
	prev, _ := snap.Line("prod-1")

	bumped, err := snap.WithLineQuantity("prod-1", 7)
	require.NoError(t, err)

	restored := bumped.WithLineRestored(prev, 0)

	got, _ := restored.Line("prod-1")
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 40.0, restored.Total)
	assert.Equal(t, 3, restored.ItemCount)
}

func TestWithLineRestored_ClampsIndex(t *testing.T) {
	snap := NewCartSnapshot("cart-1", "user-1", twoLineCart())
	removed, _ := snap.Line("prod-2")

	next := snap.WithoutLine("prod-2")
	restored := next.WithLineRestored(removed, 10)

	require.Len(t, restored.Lines, 2)
	assert.Equal(t, "prod-2", restored.Lines[1].ProductID)
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, NewCartSnapshot("", "user-1", nil).IsEmpty())
	assert.False(t, NewCartSnapshot("cart-1", "user-1", twoLineCart()).IsEmpty())
}
