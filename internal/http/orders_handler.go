package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invix-studio/quick-billing/internal/auth"
	"github.com/invix-studio/quick-billing/internal/orders/domain"
	"github.com/invix-studio/quick-billing/internal/orders/service"
)

// orderService is the slice of the order service the handler needs.
type orderService interface {
	CreateOrder(ctx context.Context, userID string, req service.CreateOrderRequest) (*domain.Order, error)
	CheckoutCart(ctx context.Context, userID string, req service.CheckoutRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, userID string, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, userID string, id uuid.UUID, requested domain.Status) (*domain.Order, error)
	Receipt(ctx context.Context, userID string, id uuid.UUID) (*service.Receipt, error)
}

type OrdersHandler struct {
	service orderService
	timeout time.Duration
}

func NewOrdersHandler(service orderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		service: service,
		timeout: timeout,
	}
}

type OrderItemRequestDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Notes     string    `json:"notes"`
}

type CreateOrderRequestDTO struct {
	CustomerName   string                `json:"customer_name"`
	TableNumber    string                `json:"table_number"`
	Notes          string                `json:"notes"`
	TaxRatePercent *decimal.Decimal      `json:"tax_rate_percent"`
	PackageCharge  *decimal.Decimal      `json:"package_charge"`
	Items          []OrderItemRequestDTO `json:"items"`
}

type CheckoutRequestDTO struct {
	CustomerName   string           `json:"customer_name"`
	TableNumber    string           `json:"table_number"`
	Notes          string           `json:"notes"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent"`
	PackageCharge  *decimal.Decimal `json:"package_charge"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items := make([]service.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			respondError(w, http.StatusBadRequest, "invalid_product_id", "every item needs a product_id")
			return
		}
		if item.Quantity <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_quantity", "every item needs a positive quantity")
			return
		}
		items[i] = service.ItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		}
	}

	order, err := h.service.CreateOrder(ctx, userID, service.CreateOrderRequest{
		CustomerName:   req.CustomerName,
		TableNumber:    req.TableNumber,
		Notes:          req.Notes,
		TaxRatePercent: req.TaxRatePercent,
		PackageCharge:  req.PackageCharge,
		Items:          items,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// Checkout turns the stored cart into an order.
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	// the body is optional, an empty checkout uses all defaults
	var req CheckoutRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	order, err := h.service.CheckoutCart(ctx, userID, service.CheckoutRequest{
		CustomerName:   req.CustomerName,
		TableNumber:    req.TableNumber,
		Notes:          req.Notes,
		TaxRatePercent: req.TaxRatePercent,
		PackageCharge:  req.PackageCharge,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.service.ListOrders(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	order, err := h.service.GetOrder(ctx, userID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	requested, err := domain.ParseStatus(req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	order, err := h.service.UpdateStatus(ctx, userID, id, requested)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	receipt, err := h.service.Receipt(ctx, userID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, receipt)
}
