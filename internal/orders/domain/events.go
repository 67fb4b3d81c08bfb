package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderCancelled = "order.cancelled"
)

// OrderEvent is the payload published through the outbox for the
// reporting pipeline. Amounts are the stored order amounts, never
// recomputed downstream.
type OrderEvent struct {
	OrderID   string           `json:"order_id"`
	UserID    string           `json:"user_id"`
	Status    Status           `json:"status"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	TaxAmount decimal.Decimal  `json:"tax_amount"`
	Total     decimal.Decimal  `json:"total_amount"`
	Items     []OrderEventItem `json:"items"`
	CreatedAt time.Time        `json:"created_at"`
}

type OrderEventItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

func NewOrderEvent(order *Order) OrderEvent {
	items := make([]OrderEventItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderEventItem{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		}
	}
	return OrderEvent{
		OrderID:   order.ID.String(),
		UserID:    order.UserID,
		Status:    order.Status,
		Subtotal:  order.Subtotal,
		TaxAmount: order.TaxAmount,
		Total:     order.Total,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}
