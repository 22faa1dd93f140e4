package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPlan   = errors.New("invalid plan")
	ErrInvalidStatus = errors.New("invalid subscription status")
	ErrMissingUser   = errors.New("user id is required")
)

// Plan is the product tier a subscription grants.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// ParsePlan validates a plan name.
func ParsePlan(s string) (Plan, error) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanFree:
		return PlanFree, nil
	case PlanPro:
		return PlanPro, nil
	default:
		return "", ErrInvalidPlan
	}
}

// SubscriptionStatus represents the current billing state.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// ParseStatus validates a status string. The British spelling "cancelled" is
// accepted and stored as "canceled".
func ParseStatus(s string) (SubscriptionStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "active":
		return SubscriptionActive, nil
	case "trialing":
		return SubscriptionTrialing, nil
	case "past_due":
		return SubscriptionPastDue, nil
	case "canceled", "cancelled":
		return SubscriptionCanceled, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Subscription mirrors the payment provider's subscription for one user.
type Subscription struct {
	ID               uuid.UUID          `json:"id"`
	UserID           uuid.UUID          `json:"userId"`
	Plan             Plan               `json:"plan"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd *time.Time         `json:"currentPeriodEnd,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// NewSubscription creates a validated subscription record.
func NewSubscription(userID uuid.UUID, plan, status string, periodEnd *time.Time) (*Subscription, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	p, err := ParsePlan(plan)
	if err != nil {
		return nil, err
	}
	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Subscription{
		ID:               uuid.New(),
		UserID:           userID,
		Plan:             p,
		Status:           st,
		CurrentPeriodEnd: periodEnd,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// IsActive reports whether the subscription grants Pro features.
func (s *Subscription) IsActive() bool {
	if s == nil {
		return false
	}
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}
