package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/invix-studio/quick-billing/internal/orders/domain"
	"github.com/invix-studio/quick-billing/internal/postgres"
)

func setupTestDB(t *testing.T) *Repository {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := postgres.Connect(&postgres.Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, postgres.RunMigrations(db, "../../../migrations"))

	return NewRepository(db)
}

func salesEvent(orderID, total string, createdAt time.Time) *domain.OrderEvent {
	return &domain.OrderEvent{
		OrderID:   orderID,
		UserID:    "user-1",
		Status:    domain.StatusPending,
		Subtotal:  decimal.RequireFromString(total),
		Total:     decimal.RequireFromString(total),
		CreatedAt: createdAt,
		Items: []domain.OrderEventItem{
			{ProductID: "p-1", ProductName: "Veg Burger", Quantity: 2, Subtotal: decimal.RequireFromString(total)},
		},
	}
}

func TestRecordOrderCreated_AggregatesByDay(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC)

	require.NoError(t, repo.RecordOrderCreated(ctx, salesEvent("o-1", "32.92", day)))
	require.NoError(t, repo.RecordOrderCreated(ctx, salesEvent("o-2", "10.00", day.Add(2*time.Hour))))

	summary, err := repo.Summary(ctx, "user-1", day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalOrders)
	assert.True(t, summary.TotalRevenue.Equal(decimal.RequireFromString("42.92")))
	assert.True(t, summary.AverageOrder.Equal(decimal.RequireFromString("21.46")))
	require.Len(t, summary.DailyStats, 1)
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, 4, summary.TopProducts[0].Quantity)
}

func TestRecordOrderCancelled_ReversesCreation(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC)

	event := salesEvent("o-1", "32.92", day)
	require.NoError(t, repo.RecordOrderCreated(ctx, event))
	require.NoError(t, repo.RecordOrderCancelled(ctx, event))

	summary, err := repo.Summary(ctx, "user-1", day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalOrders)
	assert.True(t, summary.TotalRevenue.IsZero())
	assert.True(t, summary.AverageOrder.IsZero())
	// cancelled-out products drop off the leaderboard
	assert.Empty(t, summary.TopProducts)
}

func TestSummary_ScopedToUser(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC)

	require.NoError(t, repo.RecordOrderCreated(ctx, salesEvent("o-1", "32.92", day)))

	summary, err := repo.Summary(ctx, "someone-else", day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalOrders)
	assert.Empty(t, summary.DailyStats)
}
