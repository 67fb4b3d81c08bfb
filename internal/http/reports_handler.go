package http

import (
	"context"
	"net/http"
	"time"

	"github.com/invix-studio/quick-billing/internal/auth"
	"github.com/invix-studio/quick-billing/internal/reports/repository"
)

const defaultReportDays = 30

type ReportsHandler struct {
	sales   repository.SalesReader
	timeout time.Duration
}

func NewReportsHandler(sales repository.SalesReader, timeout time.Duration) *ReportsHandler {
	return &ReportsHandler{
		sales:   sales,
		timeout: timeout,
	}
}

// GetSummary returns the sales summary for the date range given by the
// `from` and `to` query params (YYYY-MM-DD, both inclusive). Without
// params it covers the last 30 days.
func (h *ReportsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	from := now.AddDate(0, 0, -defaultReportDays)
	to := now

	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_range", "from must be YYYY-MM-DD")
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_range", "to must be YYYY-MM-DD")
			return
		}
	}
	if to.Before(from) {
		respondError(w, http.StatusBadRequest, "invalid_range", "to must not be before from")
		return
	}

	summary, err := h.sales.Summary(ctx, userID, from, to)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
