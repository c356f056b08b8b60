package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Basmati Rice 5kg", decimal.NewFromInt(700), decimal.NewFromInt(999), decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "SKU-001", product.SKU)
		assert.Equal(t, "Basmati Rice 5kg", product.Name)
		assert.True(t, product.MRP.Equal(decimal.NewFromInt(999)))
		assert.True(t, product.TaxPercent.Equal(decimal.NewFromInt(5)))
		assert.True(t, product.Active)
		assert.NotEmpty(t, product.ID)
	})

	t.Run("converts SKU to uppercase", func(t *testing.T) {
		product, err := NewProduct("sku-001", "Test Product", decimal.Zero, decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", product.SKU)
	})

	t.Run("fails with empty SKU", func(t *testing.T) {
		_, err := NewProduct("  ", "Test Product", decimal.Zero, decimal.NewFromInt(100), decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKU cannot be empty")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "", decimal.Zero, decimal.NewFromInt(100), decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "Test Product", decimal.Zero, decimal.NewFromInt(-1), decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Prices cannot be negative")
	})

	t.Run("fails with tax percent over 100", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "Test Product", decimal.Zero, decimal.NewFromInt(100), decimal.NewFromInt(101))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Tax percent")
	})
}

func TestProductSellability(t *testing.T) {
	product, err := NewProduct("SKU-001", "Test Product", decimal.Zero, decimal.NewFromInt(100), decimal.Zero)
	require.NoError(t, err)

	t.Run("new product is sellable", func(t *testing.T) {
		assert.True(t, product.IsSellable())
	})

	t.Run("deactivated product is not sellable", func(t *testing.T) {
		product.Deactivate()
		assert.False(t, product.IsSellable())
	})

	t.Run("reactivated product is sellable again", func(t *testing.T) {
		product.Activate()
		assert.True(t, product.IsSellable())
	})
}

func TestProductSetPrices(t *testing.T) {
	product, err := NewProduct("SKU-001", "Test Product", decimal.NewFromInt(50), decimal.NewFromInt(100), decimal.Zero)
	require.NoError(t, err)

	t.Run("updates prices", func(t *testing.T) {
		err := product.SetPrices(decimal.NewFromInt(60), decimal.NewFromInt(120))
		require.NoError(t, err)
		assert.True(t, product.CostPrice.Equal(decimal.NewFromInt(60)))
		assert.True(t, product.MRP.Equal(decimal.NewFromInt(120)))
	})

	t.Run("rejects negative prices", func(t *testing.T) {
		err := product.SetPrices(decimal.NewFromInt(-1), decimal.NewFromInt(120))
		require.Error(t, err)
	})
}

func TestProductLineTax(t *testing.T) {
	t.Run("computes tax on line total", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Test Product", decimal.Zero, decimal.NewFromInt(100), decimal.NewFromInt(18))
		require.NoError(t, err)

		tax := product.LineTax(decimal.NewFromInt(250))
		assert.True(t, tax.Equal(decimal.NewFromInt(45)), "got %s", tax)
	})

	t.Run("rounds to two decimal places", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Test Product", decimal.Zero, decimal.NewFromInt(100), decimal.NewFromInt(5))
		require.NoError(t, err)

		tax := product.LineTax(decimal.NewFromFloat(99.99))
		assert.True(t, tax.Equal(decimal.NewFromFloat(5.00)), "got %s", tax)
	})

	t.Run("zero rate yields zero tax", func(t *testing.T) {
		product, err := NewProduct("SKU-001", "Test Product", decimal.Zero, decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, product.LineTax(decimal.NewFromInt(500)).IsZero())
	})
}
