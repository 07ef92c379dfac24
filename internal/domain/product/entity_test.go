//go:build unit

package product_test

import (
	"strings"
	"testing"

	"storefront/internal/domain/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		p, err := product.NewProduct(uuid.New(), "  Espresso Beans  ", " Dark roast ", decimal.NewFromInt(12), "https://cdn.example.com/beans.jpg", "coffee", true)
		require.NoError(t, err)

		assert.Equal(t, "Espresso Beans", p.Name())
		assert.Equal(t, "Dark roast", p.Description())
		assert.True(t, p.IsActive())
	})

	longName := strings.Repeat("a", product.MaxNameLength+1)

	cases := []struct {
		name    string
		product string
		price   decimal.Decimal
		errIs   error
	}{
		{name: "empty name", product: "", price: decimal.NewFromInt(10), errIs: product.ErrEmptyName},
		{name: "whitespace name", product: "   ", price: decimal.NewFromInt(10), errIs: product.ErrEmptyName},
		{name: "name too long", product: longName, price: decimal.NewFromInt(10), errIs: product.ErrNameTooLong},
		{name: "negative price", product: "Beans", price: decimal.NewFromInt(-1), errIs: product.ErrNegativePrice},
		{name: "zero price allowed", product: "Sample", price: decimal.Zero},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := product.NewProduct(uuid.New(), tc.product, "", tc.price, "", "", true)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProductActivation(t *testing.T) {
	p, err := product.NewProduct(uuid.New(), "Beans", "", decimal.NewFromInt(10), "", "", true)
	require.NoError(t, err)

	p.Deactivate()
	assert.False(t, p.IsActive())
	p.Activate()
	assert.True(t, p.IsActive())
}
