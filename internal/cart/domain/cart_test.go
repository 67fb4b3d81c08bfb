package domain

import (
	"testing"

	"github.com/google/uuid"
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

func line(id uuid.UUID, name, price string, qty int) Line {
	return Line{ProductID: id, ProductName: name, UnitPrice: dec(price), Quantity: qty}
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	cart := &Cart{UserID: "user-1"}
	id := uuid.New()

	cart.AddItem(line(id, "Margherita", "12.99", 1))
	cart.AddItem(line(id, "Margherita", "12.99", 1))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].Subtotal.Equal(dec("25.98")))
}

func TestAddItem_ZeroQuantityCountsAsOne(t *testing.T) {
	cart := &Cart{}
	cart.AddItem(line(uuid.New(), "Espresso", "2.50", 0))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestAddItem_KeepsInsertionOrder(t *testing.T) {
	cart := &Cart{}
	first, second, third := uuid.New(), uuid.New(), uuid.New()

	cart.AddItem(line(first, "Soup", "4.50", 1))
	cart.AddItem(line(second, "Pasta", "9.00", 1))
	cart.AddItem(line(third, "Cake", "5.25", 1))
	cart.AddItem(line(first, "Soup", "4.50", 1)) // merge must not reorder

	require.Len(t, cart.Items, 3)
	assert.Equal(t, first, cart.Items[0].ProductID)
	assert.Equal(t, second, cart.Items[1].ProductID)
	assert.Equal(t, third, cart.Items[2].ProductID)
}

func TestSetQuantity_RecomputesSubtotal(t *testing.T) {
	cart := &Cart{}
	id := uuid.New()
	cart.AddItem(line(id, "Burger", "8.00", 1))

	cart.SetQuantity(id, 3)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].Subtotal.Equal(dec("24.00")))
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	cart := &Cart{}
	id := uuid.New()
	cart.AddItem(line(id, "Burger", "8.00", 2))

	cart.SetQuantity(id, 0)

	assert.Empty(t, cart.Items)
}

func TestSetQuantity_UnknownProductIsNoOp(t *testing.T) {
	cart := &Cart{}
	cart.AddItem(line(uuid.New(), "Burger", "8.00", 2))

	cart.SetQuantity(uuid.New(), 5)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	cart := &Cart{}
	keep, drop := uuid.New(), uuid.New()
	cart.AddItem(line(keep, "Soup", "4.50", 1))
	cart.AddItem(line(drop, "Pasta", "9.00", 1))

	cart.RemoveItem(drop)
	cart.RemoveItem(uuid.New()) // absent, no-op

	require.Len(t, cart.Items, 1)
	assert.Equal(t, keep, cart.Items[0].ProductID)
}

func TestSetQuantityZero_EquivalentToRemove(t *testing.T) {
	id := uuid.New()

	a := &Cart{}
	a.AddItem(line(id, "Soup", "4.50", 2))
	a.SetQuantity(id, 0)

	b := &Cart{}
	b.AddItem(line(id, "Soup", "4.50", 2))
	b.RemoveItem(id)

	assert.Equal(t, a.Items, b.Items)
	assert.True(t, a.IsEmpty())
	assert.True(t, b.IsEmpty())
}

func TestClear(t *testing.T) {
	cart := &Cart{}
	cart.AddItem(line(uuid.New(), "Soup", "4.50", 1))
	cart.AddItem(line(uuid.New(), "Pasta", "9.00", 1))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
}

func TestTotals(t *testing.T) {
	cart := &Cart{}
	cart.AddItem(line(uuid.New(), "Pizza", "12.99", 2))
	cart.AddItem(line(uuid.New(), "Soda", "4.50", 1))

	totals, err := cart.Totals(dec("8"), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(dec("30.48")))
	assert.True(t, totals.TaxAmount.Equal(dec("2.44")))
	assert.True(t, totals.Total.Equal(dec("32.92")))
}

func TestTotals_EmptyCartIsValidZero(t *testing.T) {
	cart := &Cart{}

	totals, err := cart.Totals(dec("8"), decimal.Zero)
	require.NoError(t, err)

	// Refusing to check out an empty cart is the order service's job,
	// not the calculator's.
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
}
