package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/invix-studio/quick-billing/internal/cart/domain"
)

func setupTestDB(t *testing.T) CartRepository {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	return repo
}

func TestGetCart_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	cart, err := repo.GetCart(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestUpsertCart_RoundTrip(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	cart := &domain.Cart{UserID: "user123"}
	cart.AddItem(domain.Line{
		ProductID:   uuid.New(),
		ProductName: "Veg Thali",
		UnitPrice:   decimal.RequireFromString("180.50"),
		Quantity:    2,
	})
	require.NoError(t, repo.UpsertCart(ctx, cart))

	got, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, cart.Items[0].ProductID, got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("180.50")))
	assert.True(t, got.Items[0].Subtotal.Equal(decimal.RequireFromString("361.00")))
}

func TestUpsertCart_ReplacesItems(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	cart := &domain.Cart{UserID: "user123"}
	productID := uuid.New()
	cart.AddItem(domain.Line{ProductID: productID, ProductName: "Chai", UnitPrice: decimal.RequireFromString("20"), Quantity: 1})
	require.NoError(t, repo.UpsertCart(ctx, cart))

	cart.SetQuantity(productID, 4)
	require.NoError(t, repo.UpsertCart(ctx, cart))

	got, err := repo.GetCart(ctx, "user123")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 4, got.Items[0].Quantity)
}

func TestDeleteCart(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	cart := &domain.Cart{UserID: "user123"}
	cart.AddItem(domain.Line{ProductID: uuid.New(), ProductName: "Chai", UnitPrice: decimal.RequireFromString("20"), Quantity: 1})
	require.NoError(t, repo.UpsertCart(ctx, cart))

	require.NoError(t, repo.DeleteCart(ctx, "user123"))
	assert.ErrorIs(t, repo.DeleteCart(ctx, "user123"), ErrCartNotFound)

	_, err := repo.GetCart(ctx, "user123")
	assert.ErrorIs(t, err, ErrCartNotFound)
}
