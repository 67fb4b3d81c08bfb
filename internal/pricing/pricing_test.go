package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotals_ReceiptScenario(t *testing.T) {
	// 2 x 12.99 + 1 x 4.50 at 8% tax, no package charge
	lines := []Line{
		{UnitPrice: dec("12.99"), Quantity: 2},
		{UnitPrice: dec("4.50"), Quantity: 1},
	}

	totals, err := ComputeTotals(lines, dec("8"), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("30.48")), "subtotal = %s", totals.Subtotal)
	// 30.48 * 0.08 = 2.4384 -> 2.44
	assert.True(t, totals.TaxAmount.Equal(dec("2.44")), "tax = %s", totals.TaxAmount)
	// 30.48 + 2.4384 = 32.9184 -> 32.92
	assert.True(t, totals.Total.Equal(dec("32.92")), "total = %s", totals.Total)
}

func TestComputeTotals_PackageCharge(t *testing.T) {
	lines := []Line{{UnitPrice: dec("100.00"), Quantity: 1}}

	totals, err := ComputeTotals(lines, dec("10"), dec("5.00"))
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("100.00")))
	assert.True(t, totals.TaxAmount.Equal(dec("10.00")))
	assert.True(t, totals.Total.Equal(dec("115.00")))
}

func TestComputeTotals_ZeroTaxIsExactlyZero(t *testing.T) {
	lines := []Line{{UnitPrice: dec("19.37"), Quantity: 3}}

	totals, err := ComputeTotals(lines, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.Equal(totals.Subtotal))
}

func TestComputeTotals_EmptyLines(t *testing.T) {
	totals, err := ComputeTotals(nil, dec("8"), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotals_OrderIndependent(t *testing.T) {
	a := []Line{
		{UnitPrice: dec("1.05"), Quantity: 3},
		{UnitPrice: dec("7.77"), Quantity: 1},
		{UnitPrice: dec("0.99"), Quantity: 12},
	}
	b := []Line{a[2], a[0], a[1]}

	ta, err := ComputeTotals(a, dec("9.5"), dec("2"))
	require.NoError(t, err)
	tb, err := ComputeTotals(b, dec("9.5"), dec("2"))
	require.NoError(t, err)

	assert.True(t, ta.Subtotal.Equal(tb.Subtotal))
	assert.True(t, ta.TaxAmount.Equal(tb.TaxAmount))
	assert.True(t, ta.Total.Equal(tb.Total))
}

func TestComputeTotals_BankersRounding(t *testing.T) {
	// 0.125 rounds to 0.12, 0.135 rounds to 0.14 (half to even)
	totals, err := ComputeTotals([]Line{{UnitPrice: dec("0.025"), Quantity: 5}}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(dec("0.12")), "0.125 -> %s", totals.Subtotal)

	totals, err = ComputeTotals([]Line{{UnitPrice: dec("0.027"), Quantity: 5}}, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(dec("0.14")), "0.135 -> %s", totals.Subtotal)
}

func TestComputeTotals_RoundingIdempotent(t *testing.T) {
	totals, err := ComputeTotals([]Line{{UnitPrice: dec("12.99"), Quantity: 2}}, dec("8"), dec("0.30"))
	require.NoError(t, err)

	assert.True(t, totals.Total.RoundBank(2).Equal(totals.Total))
	assert.True(t, totals.TaxAmount.RoundBank(2).Equal(totals.TaxAmount))
	assert.True(t, totals.Subtotal.RoundBank(2).Equal(totals.Subtotal))
}

func TestComputeTotals_InvalidInput(t *testing.T) {
	valid := []Line{{UnitPrice: dec("1.00"), Quantity: 1}}

	tests := []struct {
		name   string
		lines  []Line
		tax    decimal.Decimal
		charge decimal.Decimal
	}{
		{"zero quantity", []Line{{UnitPrice: dec("1.00"), Quantity: 0}}, dec("8"), decimal.Zero},
		{"negative quantity", []Line{{UnitPrice: dec("1.00"), Quantity: -2}}, dec("8"), decimal.Zero},
		{"negative price", []Line{{UnitPrice: dec("-0.01"), Quantity: 1}}, dec("8"), decimal.Zero},
		{"negative tax rate", valid, dec("-1"), decimal.Zero},
		{"tax rate above 100", valid, dec("100.01"), decimal.Zero},
		{"negative package charge", valid, dec("8"), dec("-5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTotals(tt.lines, tt.tax, tt.charge)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestComputeTotals_TaxRateBoundaries(t *testing.T) {
	lines := []Line{{UnitPrice: dec("50.00"), Quantity: 2}}

	totals, err := ComputeTotals(lines, dec("0"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.TaxAmount.IsZero())

	totals, err = ComputeTotals(lines, dec("100"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.TaxAmount.Equal(dec("100.00")))
	assert.True(t, totals.Total.Equal(dec("200.00")))
}
