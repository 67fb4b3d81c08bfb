package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/invix-studio/quick-billing/internal/orders/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusConflict means the optimistic status guard failed:
	// somebody moved the order between read and write.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

type OrderRepository interface {
	// CreateOrder writes the order, its items and the order.created
	// outbox event in one transaction. An order row never exists
	// without its item rows.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, userID string, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	// UpdateOrderStatus applies the transition only if the stored
	// status still equals from.
	UpdateOrderStatus(ctx context.Context, userID string, id uuid.UUID, from, to domain.Status) error
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}
