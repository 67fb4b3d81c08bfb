package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/invix-studio/quick-billing/internal/billing/domain"
)

var (
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

type PlanRepository interface {
	// ListPlans returns all plans ordered by monthly price ascending.
	ListPlans(ctx context.Context) ([]*domain.Plan, error)
	GetPlan(ctx context.Context, planID uuid.UUID) (*domain.Plan, error)
	// Subscribe upserts the user's single subscription row.
	Subscribe(ctx context.Context, userID string, planID uuid.UUID) (*domain.Subscription, error)
	GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error)
}
