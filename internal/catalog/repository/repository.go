package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/invix-studio/quick-billing/internal/catalog/domain"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository is scoped by user on every call: each restaurant
// account only ever sees its own catalog rows.
type ProductRepository interface {
	ListProducts(ctx context.Context, userID string, onlyAvailable bool) ([]*domain.Product, error)
	GetProduct(ctx context.Context, userID string, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, userID string, id uuid.UUID) error
}
