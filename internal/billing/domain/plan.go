package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is a subscription tier a restaurant can run the POS on.
type Plan struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
	MaxProducts  int             `json:"max_products"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Subscription is a user's single active plan. One row per user,
// subscribing again replaces it.
type Subscription struct {
	UserID    string    `json:"user_id"`
	PlanID    uuid.UUID `json:"plan_id"`
	PlanName  string    `json:"plan_name"`
	StartedAt time.Time `json:"started_at"`
}
