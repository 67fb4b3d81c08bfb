package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid pricing input")

// Line is one priced cart or order position.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals sums the lines, applies the tax rate and the flat package
// charge and rounds each output once at the end (banker's rounding, 2 dp).
// Rounding per line and re-summing would drift from the displayed total,
// so intermediate values stay exact.
func ComputeTotals(lines []Line, taxRatePercent, packageCharge decimal.Decimal) (Totals, error) {
	if taxRatePercent.IsNegative() || taxRatePercent.GreaterThan(hundred) {
		return Totals{}, fmt.Errorf("%w: tax rate %s%% must be within [0, 100]", ErrInvalidInput, taxRatePercent)
	}
	if packageCharge.IsNegative() {
		return Totals{}, fmt.Errorf("%w: package charge %s must not be negative", ErrInvalidInput, packageCharge)
	}

	subtotal := decimal.Zero
	for i, line := range lines {
		if line.Quantity <= 0 {
			return Totals{}, fmt.Errorf("%w: line %d has non-positive quantity %d", ErrInvalidInput, i, line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("%w: line %d has negative unit price %s", ErrInvalidInput, i, line.UnitPrice)
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	taxAmount := subtotal.Mul(taxRatePercent).Div(hundred)
	total := subtotal.Add(taxAmount).Add(packageCharge)

	return Totals{
		Subtotal:  subtotal.RoundBank(2),
		TaxAmount: taxAmount.RoundBank(2),
		Total:     total.RoundBank(2),
	}, nil
}
