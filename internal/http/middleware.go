package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	billingrepo "github.com/invix-studio/quick-billing/internal/billing/repository"
	cartrepo "github.com/invix-studio/quick-billing/internal/cart/repository"
	cartservice "github.com/invix-studio/quick-billing/internal/cart/service"
	catalogrepo "github.com/invix-studio/quick-billing/internal/catalog/repository"
	"github.com/invix-studio/quick-billing/internal/images"
	ordersdomain "github.com/invix-studio/quick-billing/internal/orders/domain"
	ordersrepo "github.com/invix-studio/quick-billing/internal/orders/repository"
	ordersservice "github.com/invix-studio/quick-billing/internal/orders/service"
	"github.com/invix-studio/quick-billing/internal/pricing"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("req-%d", time.Now().UnixNano())
		}

		ctx := context.WithValue(r.Context(), "request_id", requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs one structured line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", getRequestID(r.Context()),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value("request_id").(string); ok {
		return requestID
	}
	return ""
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps the domain sentinels onto HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogrepo.ErrProductNotFound),
		errors.Is(err, ordersrepo.ErrOrderNotFound),
		errors.Is(err, cartrepo.ErrCartNotFound),
		errors.Is(err, billingrepo.ErrPlanNotFound),
		errors.Is(err, billingrepo.ErrSubscriptionNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, ordersdomain.ErrUnknownStatus),
		errors.Is(err, ordersservice.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ordersdomain.ErrInvalidTransition),
		errors.Is(err, ordersrepo.ErrStatusConflict):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ordersservice.ErrProductUnavailable),
		errors.Is(err, cartservice.ErrProductUnavailable):
		respondError(w, http.StatusUnprocessableEntity, "product_unavailable", err.Error())
	case errors.Is(err, images.ErrUploadFailed):
		respondError(w, http.StatusBadGateway, "upload_failed", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
