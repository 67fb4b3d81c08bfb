package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/invix-studio/quick-billing/internal/auth"
)

type RouterDeps struct {
	Products *ProductHandler
	Cart     *CartHandler
	Orders   *OrdersHandler
	Reports  *ReportsHandler
	Plans    *PlansHandler
	Verifier auth.Verifier
	Logger   *slog.Logger
	Timeout  time.Duration
}

// NewRouter wires all handlers under /api/v1 behind the shared
// middleware stack.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Timeout(deps.Timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(deps.Verifier))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Products.ListProducts)
			r.Post("/", deps.Products.CreateProduct)
			r.Get("/{id}", deps.Products.GetProduct)
			r.Put("/{id}", deps.Products.UpdateProduct)
			r.Delete("/{id}", deps.Products.DeleteProduct)
			r.Post("/{id}/image", deps.Products.UploadImage)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			r.Delete("/", deps.Cart.ClearCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", deps.Orders.CreateOrder)
			r.Post("/checkout", deps.Orders.Checkout)
			r.Get("/", deps.Orders.ListOrders)
			r.Get("/{id}", deps.Orders.GetOrder)
			r.Patch("/{id}/status", deps.Orders.UpdateStatus)
			r.Get("/{id}/receipt", deps.Orders.GetReceipt)
		})

		r.Get("/reports/sales", deps.Reports.GetSummary)

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", deps.Plans.ListPlans)
			r.Post("/subscribe", deps.Plans.Subscribe)
			r.Get("/subscription", deps.Plans.GetSubscription)
		})
	})

	return otelhttp.NewHandler(r, "pos-server")
}
