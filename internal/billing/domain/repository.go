package domain

import (
	"context"

	"github.com/google/uuid"
)

// SubscriptionRepository defines access for subscription persistence.
// Implementations keep at most one record per user.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, subscription *Subscription) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Subscription, error)
}
