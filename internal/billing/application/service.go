package application

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/inkwell/internal/billing/domain"
	"github.com/google/uuid"
)

// Service provides subscription access.
type Service struct {
	subscriptions domain.SubscriptionRepository
}

// NewService creates a new billing service.
func NewService(subscriptions domain.SubscriptionRepository) *Service {
	return &Service{subscriptions: subscriptions}
}

// GetSubscription returns the user's subscription, if any.
func (s *Service) GetSubscription(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	if s == nil || s.subscriptions == nil {
		return nil, nil
	}
	sub, err := s.subscriptions.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

// HasActiveAccess reports whether the user holds an active or trialing subscription.
func (s *Service) HasActiveAccess(ctx context.Context, userID uuid.UUID) (bool, error) {
	sub, err := s.GetSubscription(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.IsActive(), nil
}

// SetSubscription upserts the user's subscription record. An existing record
// keeps its id and creation time.
func (s *Service) SetSubscription(ctx context.Context, userID uuid.UUID, plan, status string, periodEnd *time.Time) (*domain.Subscription, error) {
	if s == nil || s.subscriptions == nil {
		return nil, fmt.Errorf("subscription store is not configured")
	}
	sub, err := domain.NewSubscription(userID, plan, status, periodEnd)
	if err != nil {
		return nil, err
	}

	existing, err := s.subscriptions.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	if existing != nil {
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	}

	if err := s.subscriptions.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	return sub, nil
}

var _ domain.BillingService = (*Service)(nil)
