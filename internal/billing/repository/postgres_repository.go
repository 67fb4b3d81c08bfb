package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/invix-studio/quick-billing/internal/billing/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListPlans(ctx context.Context) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, monthly_price, max_products, created_at
		FROM subscription_plans
		ORDER BY monthly_price`)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.MonthlyPrice, &p.MaxProducts, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return plans, nil
}

func (r *PostgresRepository) GetPlan(ctx context.Context, planID uuid.UUID) (*domain.Plan, error) {
	var p domain.Plan
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, monthly_price, max_products, created_at
		FROM subscription_plans
		WHERE id = $1`, planID).
		Scan(&p.ID, &p.Name, &p.Description, &p.MonthlyPrice, &p.MaxProducts, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query plan: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) Subscribe(ctx context.Context, userID string, planID uuid.UUID) (*domain.Subscription, error) {
	plan, err := r.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	var sub domain.Subscription
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO user_subscriptions (user_id, plan_id, started_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET plan_id = EXCLUDED.plan_id, started_at = NOW()
		RETURNING user_id, plan_id, started_at`, userID, planID).
		Scan(&sub.UserID, &sub.PlanID, &sub.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}
	sub.PlanName = plan.Name
	return &sub, nil
}

func (r *PostgresRepository) GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.QueryRowContext(ctx, `
		SELECT s.user_id, s.plan_id, p.name, s.started_at
		FROM user_subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.user_id = $1`, userID).
		Scan(&sub.UserID, &sub.PlanID, &sub.PlanName, &sub.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query subscription: %w", err)
	}
	return &sub, nil
}
