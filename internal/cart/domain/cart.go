package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invix-studio/quick-billing/internal/pricing"
)

// Line is one product position in a cart. Subtotal is always recomputed
// from UnitPrice and Quantity, never stored independently of them.
type Line struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	AddedAt     time.Time       `json:"added_at"`
}

// Cart accumulates lines for one user session. Lines are unique per
// product ID; the slice keeps first-add order, which is what the POS
// screen displays.
type Cart struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	Items     []Line    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddItem merges the line into the cart: an existing product gains the
// quantity, a new product is appended. A non-positive quantity counts
// as a single unit (the "add to cart" tap).
func (c *Cart) AddItem(item Line) {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}

	if i := c.find(item.ProductID); i >= 0 {
		c.Items[i].Quantity += qty
		c.Items[i].UnitPrice = item.UnitPrice
		c.Items[i].Subtotal = lineSubtotal(c.Items[i])
		return
	}

	item.Quantity = qty
	item.Subtotal = lineSubtotal(item)
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	c.Items = append(c.Items, item)
}

// SetQuantity sets the line's quantity; zero or less removes the line.
// An unknown product ID is a no-op: a double-click on "+" can race the
// removal of the same line and must not fail the request.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity = quantity
	c.Items[i].Subtotal = lineSubtotal(c.Items[i])
}

// RemoveItem deletes the line if present, no-op otherwise.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	if i := c.find(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Totals prices the current lines with the given tax rate and package
// charge.
func (c *Cart) Totals(taxRatePercent, packageCharge decimal.Decimal) (pricing.Totals, error) {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
	}
	return pricing.ComputeTotals(lines, taxRatePercent, packageCharge)
}

func (c *Cart) find(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func lineSubtotal(item Line) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
