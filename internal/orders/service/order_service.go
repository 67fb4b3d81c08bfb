package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartdomain "github.com/invix-studio/quick-billing/internal/cart/domain"
	catalogrepo "github.com/invix-studio/quick-billing/internal/catalog/repository"
	"github.com/invix-studio/quick-billing/internal/orders/domain"
	"github.com/invix-studio/quick-billing/internal/orders/repository"
	"github.com/invix-studio/quick-billing/internal/pricing"
)

var (
	ErrEmptyOrder         = errors.New("order has no items, nothing to place")
	ErrProductUnavailable = errors.New("product is not available")
)

// Defaults are the deployment-level tax rate and package charge. Both
// can still be overridden per order by the staff member placing it.
type Defaults struct {
	TaxRatePercent decimal.Decimal
	PackageCharge  decimal.Decimal
}

// cartProvider is the slice of the cart service checkout needs.
type cartProvider interface {
	GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type OrderService struct {
	repo     repository.OrderRepository
	products catalogrepo.ProductRepository
	carts    cartProvider
	defaults Defaults
}

func NewOrderService(repo repository.OrderRepository, products catalogrepo.ProductRepository, carts cartProvider, defaults Defaults) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
		carts:    carts,
		defaults: defaults,
	}
}

type ItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
	Notes     string
}

type CreateOrderRequest struct {
	CustomerName string
	TableNumber  string
	Notes        string
	// nil means "use the deployment default"
	TaxRatePercent *decimal.Decimal
	PackageCharge  *decimal.Decimal
	Items          []ItemRequest
}

// CreateOrder prices the requested items at their current catalog
// prices, freezes those prices into the order items and persists
// everything atomically.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	taxRate := s.defaults.TaxRatePercent
	if req.TaxRatePercent != nil {
		taxRate = *req.TaxRatePercent
	}
	packageCharge := s.defaults.PackageCharge
	if req.PackageCharge != nil {
		packageCharge = *req.PackageCharge
	}

	items := make([]domain.OrderItem, len(req.Items))
	lines := make([]pricing.Line, len(req.Items))
	for i, ir := range req.Items {
		product, err := s.products.GetProduct(ctx, userID, ir.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Available {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}

		items[i] = domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    ir.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(ir.Quantity))),
			Notes:       ir.Notes,
		}
		lines[i] = pricing.Line{UnitPrice: product.Price, Quantity: ir.Quantity}
	}

	totals, err := pricing.ComputeTotals(lines, taxRate, packageCharge)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:        userID,
		CustomerName:  req.CustomerName,
		TableNumber:   req.TableNumber,
		Subtotal:      totals.Subtotal,
		TaxRate:       taxRate,
		TaxAmount:     totals.TaxAmount,
		PackageCharge: packageCharge,
		Total:         totals.Total,
		Status:        domain.StatusPending,
		Notes:         req.Notes,
		Items:         items,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

type CheckoutRequest struct {
	CustomerName   string
	TableNumber    string
	Notes          string
	TaxRatePercent *decimal.Decimal
	PackageCharge  *decimal.Decimal
}

// CheckoutCart turns the user's cart into an order and clears the cart.
// Quantities come from the cart; prices are re-captured from the
// catalog at this moment, which is the point the order legally exists.
func (s *OrderService) CheckoutCart(ctx context.Context, userID string, req CheckoutRequest) (*domain.Order, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyOrder
	}

	items := make([]ItemRequest, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = ItemRequest{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	order, err := s.CreateOrder(ctx, userID, CreateOrderRequest{
		CustomerName:   req.CustomerName,
		TableNumber:    req.TableNumber,
		Notes:          req.Notes,
		TaxRatePercent: req.TaxRatePercent,
		PackageCharge:  req.PackageCharge,
		Items:          items,
	})
	if err != nil {
		return nil, err
	}

	// the order is placed; a leftover cart is an annoyance, not a failure
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		log.Printf("failed to clear cart after checkout for user %s: %v", userID, err)
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID string, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, userID, id)
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListOrders(ctx, userID)
}

// UpdateStatus drives one transition of the order lifecycle. Asking for
// the state the order is already in is treated as a duplicate click and
// returns the order unchanged.
func (s *OrderService) UpdateStatus(ctx context.Context, userID string, id uuid.UUID, requested domain.Status) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if order.Status == requested {
		return order, nil
	}

	next, err := domain.NextState(order.Status, requested)
	if err != nil {
		return nil, err
	}

	err = s.repo.UpdateOrderStatus(ctx, userID, id, order.Status, next)
	if errors.Is(err, repository.ErrStatusConflict) {
		// somebody else raced us there; re-read and accept if they
		// requested the same transition
		current, errGet := s.repo.GetOrderByID(ctx, userID, id)
		if errGet != nil {
			return nil, errGet
		}
		if current.Status == requested {
			return current, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	order.Status = next
	return order, nil
}

type ReceiptLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Receipt is the print view of a stored order. Every amount comes from
// the order row as persisted at creation time; nothing is recomputed
// from live catalog prices.
type Receipt struct {
	OrderID       uuid.UUID       `json:"order_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	TableNumber   string          `json:"table_number,omitempty"`
	Lines         []ReceiptLine   `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	PackageCharge decimal.Decimal `json:"package_charge"`
	Total         decimal.Decimal `json:"total_amount"`
	Notes         string          `json:"notes,omitempty"`
	PlacedAt      string          `json:"placed_at"`
}

func (s *OrderService) Receipt(ctx context.Context, userID string, id uuid.UUID) (*Receipt, error) {
	order, err := s.repo.GetOrderByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	lines := make([]ReceiptLine, len(order.Items))
	for i, item := range order.Items {
		lines[i] = ReceiptLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}

	return &Receipt{
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		TableNumber:   order.TableNumber,
		Lines:         lines,
		Subtotal:      order.Subtotal,
		TaxRate:       order.TaxRate,
		TaxAmount:     order.TaxAmount,
		PackageCharge: order.PackageCharge,
		Total:         order.Total,
		Notes:         order.Notes,
		PlacedAt:      order.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
