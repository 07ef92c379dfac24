//go:build unit

package cart_test

import (
	"testing"

	"storefront/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItem(t *testing.T) {
	productID := uuid.New()

	t.Run("adds a new line", func(t *testing.T) {
		c := cart.NewCart(uuid.New(), uuid.New(), nil)

		require.NoError(t, c.AddItem(productID, 2, decimal.NewFromInt(100)))

		require.Len(t, c.Items(), 1)
		assert.Equal(t, 2, c.Items()[0].Quantity)
	})

	t.Run("merges quantity for an existing product", func(t *testing.T) {
		c := cart.NewCart(uuid.New(), uuid.New(), nil)

		require.NoError(t, c.AddItem(productID, 2, decimal.NewFromInt(100)))
		require.NoError(t, c.AddItem(productID, 3, decimal.NewFromInt(100)))

		require.Len(t, c.Items(), 1)
		assert.Equal(t, 5, c.Items()[0].Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		c := cart.NewCart(uuid.New(), uuid.New(), nil)

		assert.ErrorIs(t, c.AddItem(productID, 0, decimal.NewFromInt(100)), cart.ErrInvalidQuantity)
		assert.ErrorIs(t, c.AddItem(productID, -1, decimal.NewFromInt(100)), cart.ErrInvalidQuantity)
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	productID := uuid.New()

	t.Run("updates an existing line", func(t *testing.T) {
		c := cart.NewCart(uuid.New(), uuid.New(), []cart.Item{
			{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		})

		require.NoError(t, c.UpdateQuantity(productID, 4))
		assert.Equal(t, 4, c.Items()[0].Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		c := cart.NewCart(uuid.New(), uuid.New(), nil)

		assert.ErrorIs(t, c.UpdateQuantity(productID, 1), cart.ErrItemNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		c := cart.NewCart(uuid.New(), uuid.New(), []cart.Item{
			{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		})

		assert.ErrorIs(t, c.UpdateQuantity(productID, 0), cart.ErrInvalidQuantity)
	})
}

func TestCartRemoveAndClear(t *testing.T) {
	productID := uuid.New()
	otherID := uuid.New()

	c := cart.NewCart(uuid.New(), uuid.New(), []cart.Item{
		{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		{ProductID: otherID, Quantity: 2, UnitPrice: decimal.NewFromInt(30)},
	})

	require.NoError(t, c.RemoveItem(productID))
	require.Len(t, c.Items(), 1)
	assert.Equal(t, otherID, c.Items()[0].ProductID)

	assert.ErrorIs(t, c.RemoveItem(productID), cart.ErrItemNotFound)

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestCartSubtotal(t *testing.T) {
	c := cart.NewCart(uuid.New(), uuid.New(), []cart.Item{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
	})

	assert.True(t, decimal.NewFromInt(250).Equal(c.Subtotal()))

	lineItems := c.LineItems()
	require.Len(t, lineItems, 2)
	assert.Equal(t, 2, lineItems[0].Quantity)
}
