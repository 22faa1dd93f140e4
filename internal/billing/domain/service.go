package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BillingService defines the subscription operations used by the HTTP and
// CLI adapters.
type BillingService interface {
	// GetSubscription returns the user's subscription, or nil when none exists.
	GetSubscription(ctx context.Context, userID uuid.UUID) (*Subscription, error)

	// HasActiveAccess reports whether the user's subscription is active or trialing.
	HasActiveAccess(ctx context.Context, userID uuid.UUID) (bool, error)

	// SetSubscription creates or replaces the user's subscription record.
	SetSubscription(ctx context.Context, userID uuid.UUID, plan, status string, periodEnd *time.Time) (*Subscription, error)
}
