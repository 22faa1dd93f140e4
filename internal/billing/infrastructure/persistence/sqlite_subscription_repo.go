package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/felixgeelhaar/inkwell/internal/billing/domain"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteSubscriptionRepository implements SubscriptionRepository with SQLite.
// Timestamps are stored as RFC 3339 text.
type SQLiteSubscriptionRepository struct {
	db database.Executor
}

// NewSQLiteSubscriptionRepository creates a new repository.
func NewSQLiteSubscriptionRepository(db database.Executor) *SQLiteSubscriptionRepository {
	return &SQLiteSubscriptionRepository{db: db}
}

// Upsert inserts or replaces the user's subscription.
func (r *SQLiteSubscriptionRepository) Upsert(ctx context.Context, subscription *domain.Subscription) error {
	now := time.Now().UTC().Format(time.RFC3339)

	var periodEnd sql.NullString
	if subscription.CurrentPeriodEnd != nil {
		periodEnd = sql.NullString{String: subscription.CurrentPeriodEnd.UTC().Format(time.RFC3339), Valid: true}
	}
	createdAt := now
	if !subscription.CreatedAt.IsZero() {
		createdAt = subscription.CreatedAt.UTC().Format(time.RFC3339)
	}

	query := `
		INSERT INTO subscriptions (
			id, user_id, plan, status, current_period_end, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			plan = excluded.plan,
			status = excluded.status,
			current_period_end = excluded.current_period_end,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		subscription.ID.String(),
		subscription.UserID.String(),
		string(subscription.Plan),
		string(subscription.Status),
		periodEnd,
		createdAt,
		now,
	)
	return err
}

// FindByUserID returns the subscription for a user, or nil when none exists.
func (r *SQLiteSubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	query := `
		SELECT id, user_id, plan, status, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = ?
	`
	var (
		idStr, userIDStr, plan, status string
		periodEndStr                   sql.NullString
		createdAtStr, updatedAtStr     string
	)
	err := r.db.QueryRow(ctx, query, userID.String()).Scan(
		&idStr,
		&userIDStr,
		&plan,
		&status,
		&periodEndStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	id, _ := uuid.Parse(idStr)
	parsedUserID, _ := uuid.Parse(userIDStr)
	createdAt, _ := time.Parse(time.RFC3339, createdAtStr)
	updatedAt, _ := time.Parse(time.RFC3339, updatedAtStr)

	var periodEnd *time.Time
	if periodEndStr.Valid {
		if t, err := time.Parse(time.RFC3339, periodEndStr.String); err == nil {
			periodEnd = &t
		}
	}

	return &domain.Subscription{
		ID:               id,
		UserID:           parsedUserID,
		Plan:             domain.Plan(plan),
		Status:           normalizeStatus(status),
		CurrentPeriodEnd: periodEnd,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}, nil
}

var _ domain.SubscriptionRepository = (*SQLiteSubscriptionRepository)(nil)
