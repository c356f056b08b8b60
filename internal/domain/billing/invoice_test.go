package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoice(t *testing.T) {
	locationID := uuid.New()

	t.Run("creates draft invoice with identity", func(t *testing.T) {
		invoice, err := NewInvoice(locationID, "Walk-in", "9876543210", "paid cash")
		require.NoError(t, err)
		require.NotNil(t, invoice)

		assert.NotEqual(t, uuid.Nil, invoice.ID)
		assert.Equal(t, locationID, invoice.LocationID)
		assert.Equal(t, "Walk-in", invoice.CustomerName)
		assert.Equal(t, InvoiceStatusIssued, invoice.Status)
		assert.Empty(t, invoice.InvoiceNumber)
		assert.Equal(t, 0, invoice.ItemCount())
	})

	t.Run("fails with nil location", func(t *testing.T) {
		_, err := NewInvoice(uuid.Nil, "", "", "")
		require.Error(t, err)
	})
}

func TestInvoiceAddLine(t *testing.T) {
	invoice, err := NewInvoice(uuid.New(), "", "", "")
	require.NoError(t, err)

	t.Run("computes line total and tax", func(t *testing.T) {
		item, err := invoice.AddLine(uuid.New(), "SKU-001", "Rice 5kg", 3, decimal.NewFromInt(999), decimal.Zero, decimal.NewFromInt(5))
		require.NoError(t, err)

		assert.True(t, item.LineTotal.Equal(decimal.NewFromInt(2997)), "got %s", item.LineTotal)
		assert.True(t, item.TaxAmount.Equal(decimal.NewFromFloat(149.85)), "got %s", item.TaxAmount)
		assert.Equal(t, invoice.ID, item.InvoiceID)
	})

	t.Run("line discount reduces line total", func(t *testing.T) {
		item, err := invoice.AddLine(uuid.New(), "SKU-002", "Oil 1L", 2, decimal.NewFromInt(150), decimal.NewFromInt(50), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, item.LineTotal.Equal(decimal.NewFromInt(250)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := invoice.AddLine(uuid.New(), "SKU-003", "Soap", 0, decimal.NewFromInt(40), decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := invoice.AddLine(uuid.New(), "SKU-003", "Soap", -2, decimal.NewFromInt(40), decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects discount exceeding line amount", func(t *testing.T) {
		_, err := invoice.AddLine(uuid.New(), "SKU-003", "Soap", 1, decimal.NewFromInt(40), decimal.NewFromInt(41), decimal.Zero)
		require.Error(t, err)
	})
}

func TestInvoiceFinalizeTotals(t *testing.T) {
	t.Run("fails on empty invoice", func(t *testing.T) {
		invoice, err := NewInvoice(uuid.New(), "", "", "")
		require.NoError(t, err)

		err = invoice.FinalizeTotals()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one line")
	})

	t.Run("sums lines into subtotal and tax", func(t *testing.T) {
		invoice, err := NewInvoice(uuid.New(), "", "", "")
		require.NoError(t, err)

		_, err = invoice.AddLine(uuid.New(), "SKU-001", "Rice 5kg", 3, decimal.NewFromInt(999), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		_, err = invoice.AddLine(uuid.New(), "SKU-002", "Oil 1L", 1, decimal.NewFromInt(150), decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, invoice.FinalizeTotals())
		assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(3147)), "got %s", invoice.Subtotal)
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(3147)))
		assert.True(t, invoice.RoundingAdjust.IsZero())
	})

	t.Run("percent discount derives amount from subtotal", func(t *testing.T) {
		invoice, err := NewInvoice(uuid.New(), "", "", "")
		require.NoError(t, err)

		_, err = invoice.AddLine(uuid.New(), "SKU-001", "Rice 5kg", 1, decimal.NewFromInt(1000), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, invoice.ApplyDiscount(decimal.Zero, decimal.NewFromInt(10)))

		require.NoError(t, invoice.FinalizeTotals())
		assert.True(t, invoice.DiscountAmount.Equal(decimal.NewFromInt(100)))
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(900)))
	})

	t.Run("cash rounding keeps total formula reconcilable", func(t *testing.T) {
		invoice, err := NewInvoice(uuid.New(), "", "", "")
		require.NoError(t, err)

		_, err = invoice.AddLine(uuid.New(), "SKU-001", "Rice 5kg", 1, decimal.NewFromFloat(99.99), decimal.Zero, decimal.NewFromInt(5))
		require.NoError(t, err)

		require.NoError(t, invoice.FinalizeTotals())

		// 99.99 + 5.00 tax = 104.99, rounds to 105
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(105)), "got %s", invoice.Total)
		assert.True(t, invoice.RoundingAdjust.Equal(decimal.NewFromFloat(0.01)), "got %s", invoice.RoundingAdjust)

		recomposed := invoice.Subtotal.Sub(invoice.DiscountAmount).Add(invoice.TaxAmount).Add(invoice.RoundingAdjust)
		assert.True(t, recomposed.Equal(invoice.Total))
	})

	t.Run("rejects discount exceeding subtotal", func(t *testing.T) {
		invoice, err := NewInvoice(uuid.New(), "", "", "")
		require.NoError(t, err)

		_, err = invoice.AddLine(uuid.New(), "SKU-001", "Soap", 1, decimal.NewFromInt(40), decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, invoice.ApplyDiscount(decimal.NewFromInt(50), decimal.Zero))

		err = invoice.FinalizeTotals()
		require.Error(t, err)
	})
}

func TestInvoiceApplyDiscount(t *testing.T) {
	invoice, err := NewInvoice(uuid.New(), "", "", "")
	require.NoError(t, err)

	t.Run("rejects negative amounts", func(t *testing.T) {
		require.Error(t, invoice.ApplyDiscount(decimal.NewFromInt(-1), decimal.Zero))
	})

	t.Run("rejects percent over 100", func(t *testing.T) {
		require.Error(t, invoice.ApplyDiscount(decimal.Zero, decimal.NewFromInt(101)))
	})
}

func TestInvoiceNumberAndStatus(t *testing.T) {
	invoice, err := NewInvoice(uuid.New(), "", "", "")
	require.NoError(t, err)

	t.Run("assigns number", func(t *testing.T) {
		require.NoError(t, invoice.SetInvoiceNumber("INV-2026-00042"))
		assert.Equal(t, "INV-2026-00042", invoice.InvoiceNumber)
	})

	t.Run("rejects blank number", func(t *testing.T) {
		require.Error(t, invoice.SetInvoiceNumber("  "))
	})

	t.Run("voids once", func(t *testing.T) {
		require.NoError(t, invoice.Void())
		assert.Equal(t, InvoiceStatusVoid, invoice.Status)
		require.Error(t, invoice.Void())
	})
}
