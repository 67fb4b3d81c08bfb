package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invix-studio/quick-billing/internal/orders/domain"
)

// SalesRecorder is the write side, fed by the order events consumer.
type SalesRecorder interface {
	RecordOrderCreated(ctx context.Context, event *domain.OrderEvent) error
	// RecordOrderCancelled reverses a previously recorded order.
	RecordOrderCancelled(ctx context.Context, event *domain.OrderEvent) error
}

type DailySales struct {
	Day     time.Time       `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type ProductSales struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type SalesSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int             `json:"total_orders"`
	AverageOrder decimal.Decimal `json:"average_order"`
	TopProducts  []ProductSales  `json:"top_products"`
	DailyStats   []DailySales    `json:"daily_stats"`
}

// SalesReader is the read side, behind the reports endpoint.
type SalesReader interface {
	Summary(ctx context.Context, userID string, from, to time.Time) (*SalesSummary, error)
}
