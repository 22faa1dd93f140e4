package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/inkwell/internal/billing/domain"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresSubscriptionRepository implements SubscriptionRepository with PostgreSQL.
type PostgresSubscriptionRepository struct {
	db database.Executor
}

// NewPostgresSubscriptionRepository creates a new repository.
func NewPostgresSubscriptionRepository(db database.Executor) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

// Upsert inserts or replaces the user's subscription.
func (r *PostgresSubscriptionRepository) Upsert(ctx context.Context, subscription *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, user_id, plan, status, current_period_end, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			plan = EXCLUDED.plan,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		subscription.ID,
		subscription.UserID,
		string(subscription.Plan),
		string(subscription.Status),
		subscription.CurrentPeriodEnd,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	return err
}

// FindByUserID returns the subscription for a user, or nil when none exists.
func (r *PostgresSubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	query := `
		SELECT id, user_id, plan, status, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`
	var (
		sub       domain.Subscription
		plan      string
		status    string
		periodEnd *time.Time
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&sub.ID,
		&sub.UserID,
		&plan,
		&status,
		&periodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	sub.Plan = domain.Plan(plan)
	sub.Status = normalizeStatus(status)
	sub.CurrentPeriodEnd = periodEnd
	return &sub, nil
}

// normalizeStatus tolerates rows written by the payment webhook with the
// British spelling.
func normalizeStatus(raw string) domain.SubscriptionStatus {
	if st, err := domain.ParseStatus(raw); err == nil {
		return st
	}
	return domain.SubscriptionStatus(raw)
}

var _ domain.SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
