package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/invix-studio/quick-billing/internal/auth"
	"github.com/invix-studio/quick-billing/internal/billing/domain"
	"github.com/invix-studio/quick-billing/internal/billing/repository"
)

type PlansHandler struct {
	repo    repository.PlanRepository
	timeout time.Duration
}

func NewPlansHandler(repo repository.PlanRepository, timeout time.Duration) *PlansHandler {
	return &PlansHandler{
		repo:    repo,
		timeout: timeout,
	}
}

type SubscribeRequestDTO struct {
	PlanID uuid.UUID `json:"plan_id"`
}

func (h *PlansHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	plans, err := h.repo.ListPlans(ctx)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if plans == nil {
		plans = []*domain.Plan{}
	}

	respondJSON(w, http.StatusOK, plans)
}

func (h *PlansHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req SubscribeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PlanID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "invalid_plan_id", "plan_id is required")
		return
	}

	sub, err := h.repo.Subscribe(ctx, userID, req.PlanID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

func (h *PlansHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := auth.UserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	sub, err := h.repo.GetSubscription(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sub)
}
