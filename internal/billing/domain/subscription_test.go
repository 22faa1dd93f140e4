package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want SubscriptionStatus
		err  bool
	}{
		{"active", SubscriptionActive, false},
		{" Trialing ", SubscriptionTrialing, false},
		{"past_due", SubscriptionPastDue, false},
		{"past-due", SubscriptionPastDue, false},
		{"canceled", SubscriptionCanceled, false},
		{"cancelled", SubscriptionCanceled, false},
		{"paused", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan("PRO")
	require.NoError(t, err)
	assert.Equal(t, PlanPro, p)

	_, err = ParsePlan("team")
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestSubscription_IsActive(t *testing.T) {
	var nilSub *Subscription
	assert.False(t, nilSub.IsActive())
	assert.True(t, (&Subscription{Status: SubscriptionActive}).IsActive())
	assert.True(t, (&Subscription{Status: SubscriptionTrialing}).IsActive())
	assert.False(t, (&Subscription{Status: SubscriptionPastDue}).IsActive())
	assert.False(t, (&Subscription{Status: SubscriptionCanceled}).IsActive())
}

func TestNewSubscription(t *testing.T) {
	userID := uuid.New()
	sub, err := NewSubscription(userID, "free", "active", nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, PlanFree, sub.Plan)
	assert.False(t, sub.CreatedAt.IsZero())
	assert.Nil(t, sub.CurrentPeriodEnd)
}
