package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContext(t *testing.T) {
	ctx := context.Background()
	_, ok := SessionFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, UserIDFromContext(ctx))

	s := &Session{UserID: uuid.New(), Email: "ada@example.com"}
	ctx = WithSession(ctx, s)

	got, ok := SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, s.Email, got.Email)
	require.NotNil(t, UserIDFromContext(ctx))
	assert.Equal(t, s.UserID, *UserIDFromContext(ctx))
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Session{}).Expired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(time.Minute)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now}).Expired(now))
}
