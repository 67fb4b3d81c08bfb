package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invix-studio/quick-billing/internal/cart/cache"
	"github.com/invix-studio/quick-billing/internal/cart/domain"
	"github.com/invix-studio/quick-billing/internal/cart/repository"
	catalogdomain "github.com/invix-studio/quick-billing/internal/catalog/domain"
	catalogrepo "github.com/invix-studio/quick-billing/internal/catalog/repository"
)

type mockRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = c
	return nil
}

func (m *mockRepository) DeleteCart(_ context.Context, _ string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

type mockCache struct {
	m       sync.RWMutex
	cart    *domain.Cart
	deletes int
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	m.deletes++
	return nil
}

type mockProducts struct {
	m        sync.RWMutex
	products map[uuid.UUID]*catalogdomain.Product
}

func (m *mockProducts) GetProduct(_ context.Context, _ string, id uuid.UUID) (*catalogdomain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, catalogrepo.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProducts) ListProducts(context.Context, string, bool) ([]*catalogdomain.Product, error) {
	return nil, nil
}
func (m *mockProducts) CreateProduct(context.Context, *catalogdomain.Product) error { return nil }
func (m *mockProducts) UpdateProduct(context.Context, *catalogdomain.Product) error { return nil }
func (m *mockProducts) DeleteProduct(context.Context, string, uuid.UUID) error      { return nil }

func newTestService() (*CartService, *mockRepository, *mockCache, *mockProducts, *catalogdomain.Product) {
	repo := &mockRepository{}
	c := &mockCache{}
	product := &catalogdomain.Product{
		ID:        uuid.New(),
		Name:      "Butter Naan",
		Price:     decimal.RequireFromString("45.00"),
		Available: true,
	}
	products := &mockProducts{products: map[uuid.UUID]*catalogdomain.Product{product.ID: product}}
	return NewCartService(repo, products, c), repo, c, products, product
}

func TestGetCart_EmptyWhenNothingStored(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	assert.True(t, cart.IsEmpty())
}

func TestGetCart_ServedFromCache(t *testing.T) {
	svc, repo, c, _, _ := newTestService()
	repo.err = assert.AnError // repo must not be touched on a cache hit

	cached := &domain.Cart{UserID: "user-1"}
	cached.AddItem(domain.Line{ProductID: uuid.New(), ProductName: "Chai", UnitPrice: decimal.RequireFromString("20"), Quantity: 1})
	c.cart = cached

	cart, err := svc.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestAddItem_SnapshotsPrice(t *testing.T) {
	svc, repo, _, products, product := newTestService()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "user-1", product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("45.00")))
	assert.True(t, cart.Items[0].Subtotal.Equal(decimal.RequireFromString("90.00")))

	// catalog price change does not rewrite the stored line
	products.m.Lock()
	products.products[product.ID].Price = decimal.RequireFromString("60.00")
	products.m.Unlock()

	require.NotNil(t, repo.cart)
	assert.True(t, repo.cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("45.00")))
}

func TestAddItem_UnavailableProduct(t *testing.T) {
	svc, _, _, products, product := newTestService()

	products.m.Lock()
	products.products[product.ID].Available = false
	products.m.Unlock()

	_, err := svc.AddItem(context.Background(), "user-1", product.ID, 1)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.AddItem(context.Background(), "user-1", uuid.New(), 1)
	assert.ErrorIs(t, err, catalogrepo.ErrProductNotFound)
}

func TestAddItem_InvalidatesCache(t *testing.T) {
	svc, _, c, _, product := newTestService()

	_, err := svc.AddItem(context.Background(), "user-1", product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.deletes)
}

func TestSetQuantity_UnknownProductKeepsCart(t *testing.T) {
	svc, _, _, _, product := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.SetQuantity(ctx, "user-1", uuid.New(), 5)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	svc, repo, _, _, product := newTestService()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", product.ID, 1)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, "user-1", product.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, repo.cart.IsEmpty())
}

func TestClearCart_MissingCartIsFine(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	assert.NoError(t, svc.ClearCart(context.Background(), "user-1"))
}

func TestGetCart_ConcurrentMissesShareResult(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	stored := &domain.Cart{UserID: "user-1"}
	stored.AddItem(domain.Line{ProductID: uuid.New(), ProductName: "Chai", UnitPrice: decimal.RequireFromString("20"), Quantity: 3})
	repo.cart = stored

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart, err := svc.GetCart(context.Background(), "user-1")
			assert.NoError(t, err)
			assert.Len(t, cart.Items, 1)
		}()
	}
	wg.Wait()
}
