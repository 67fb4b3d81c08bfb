package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invix-studio/quick-billing/internal/orders/domain"
)

const topProductsLimit = 5

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) RecordOrderCreated(ctx context.Context, event *domain.OrderEvent) error {
	return r.record(ctx, event, 1)
}

func (r *Repository) RecordOrderCancelled(ctx context.Context, event *domain.OrderEvent) error {
	return r.record(ctx, event, -1)
}

// record applies the event with sign +1 (created) or -1 (cancelled) so
// a cancellation exactly reverses the numbers the creation added.
func (r *Repository) record(ctx context.Context, event *domain.OrderEvent, sign int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sales tx: %w", err)
	}
	defer tx.Rollback()

	day := event.CreatedAt.UTC().Truncate(24 * time.Hour)
	signDec := decimal.NewFromInt(sign)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_sales (user_id, day, revenue, orders)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, day)
		DO UPDATE SET revenue = daily_sales.revenue + EXCLUDED.revenue,
		              orders  = daily_sales.orders + EXCLUDED.orders`,
		event.UserID, day, event.Total.Mul(signDec), sign)
	if err != nil {
		return fmt.Errorf("upsert daily sales: %w", err)
	}

	for _, item := range event.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO product_sales (user_id, product_id, product_name, quantity, revenue)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id, product_id)
			DO UPDATE SET quantity     = product_sales.quantity + EXCLUDED.quantity,
			              revenue      = product_sales.revenue + EXCLUDED.revenue,
			              product_name = EXCLUDED.product_name`,
			event.UserID, item.ProductID, item.ProductName, sign*int64(item.Quantity), item.Subtotal.Mul(signDec))
		if err != nil {
			return fmt.Errorf("upsert product sales: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sales tx: %w", err)
	}
	return nil
}

func (r *Repository) Summary(ctx context.Context, userID string, from, to time.Time) (*SalesSummary, error) {
	summary := &SalesSummary{
		TotalRevenue: decimal.Zero,
		AverageOrder: decimal.Zero,
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT day, revenue, orders FROM daily_sales
		WHERE user_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ds DailySales
		if err := rows.Scan(&ds.Day, &ds.Revenue, &ds.Orders); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		summary.DailyStats = append(summary.DailyStats, ds)
		summary.TotalRevenue = summary.TotalRevenue.Add(ds.Revenue)
		summary.TotalOrders += ds.Orders
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if summary.TotalOrders > 0 {
		summary.AverageOrder = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.TotalOrders))).
			RoundBank(2)
	}

	productRows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, revenue FROM product_sales
		WHERE user_id = $1 AND quantity > 0
		ORDER BY revenue DESC LIMIT $2`, userID, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("query product sales: %w", err)
	}
	defer productRows.Close()

	for productRows.Next() {
		var ps ProductSales
		if err := productRows.Scan(&ps.ProductID, &ps.ProductName, &ps.Quantity, &ps.Revenue); err != nil {
			return nil, fmt.Errorf("scan product sales: %w", err)
		}
		summary.TopProducts = append(summary.TopProducts, ps)
	}
	if err := productRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return summary, nil
}
