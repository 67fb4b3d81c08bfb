package repository

import (
	"context"
	"errors"

	"github.com/invix-studio/quick-billing/internal/cart/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository persists one cart per user. Mutations go through the
// domain accumulator; the repository only loads and stores whole carts.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
