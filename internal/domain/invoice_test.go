package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitAmountMinorRoundsHalfCents(t *testing.T) {
	tests := []struct {
		price float64
		want  int64
	}{
		{50, 5000},
		{19.99, 1999},
		{0.1, 10},
		// 33.335 is not representable exactly; rounding keeps it deterministic.
		{33.335, 3334},
		{1500, 150000},
	}
	for _, tt := range tests {
		item := InvoiceItem{Quantity: 1, UnitPrice: tt.price}
		assert.Equal(t, tt.want, item.UnitAmountMinor(), "price %v", tt.price)
	}
}

func TestSumItems(t *testing.T) {
	items := []InvoiceItem{
		{Quantity: 2, UnitPrice: 50},
		{Quantity: 1, UnitPrice: 75},
		{Quantity: 3, UnitPrice: 0.10},
	}
	assert.InDelta(t, 175.30, SumItems(items), 0.001)
	assert.Empty(t, SumItems(nil))
}
