package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	lines := []InvoiceLine{
		{ProductID: "p1", Price: 1.20, Qty: 2, Total: 1.20 * 2},
		{ProductID: "p2", Price: 2.10, Qty: 1, Total: 2.10},
	}

	got := ComputeTotals(lines, 5)

	assert.InDelta(t, 4.50, got.Subtotal, 1e-9)
	assert.Equal(t, 0.0, got.Discount)
	assert.InDelta(t, 0.225, got.Tax, 1e-9)
	assert.InDelta(t, 4.725, got.Total, 1e-9)
}

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals(nil, 5)
	assert.Equal(t, Totals{}, got)
}

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		4.725:  "4.73",
		4.5:    "4.50",
		0.225:  "0.23",
		0:      "0.00",
		1.005:  "1.01",
		-2.345: "-2.35",
		1234.5: "1234.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(in), "FormatMoney(%v)", in)
	}
	assert.Equal(t, "NaN", FormatMoney(math.NaN()))
}

func TestValidationError_Unwraps(t *testing.T) {
	var err error = &ValidationError{Field: "price", Reason: "must not be negative"}

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "invalid price: must not be negative", err.Error())

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "price", ve.Field)
}

func TestFindProduct(t *testing.T) {
	products := []Product{{ID: "a", Stock: 1}, {ID: "b", Stock: 2}}

	p := FindProduct(products, "b")
	require.NotNil(t, p)
	p.Stock = 9
	assert.Equal(t, 9, products[1].Stock)

	assert.Nil(t, FindProduct(products, "zzz"))
}
