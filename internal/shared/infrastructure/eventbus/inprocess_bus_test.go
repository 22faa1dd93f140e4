package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/inkwell/internal/shared/domain"
	"github.com/felixgeelhaar/inkwell/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type joined struct {
	Email string `json:"email"`
}

func TestPublishEvent_DeliversEnvelope(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)

	var got []*eventbus.Envelope
	bus.Subscribe("waitlist.joined", func(ctx context.Context, env *eventbus.Envelope) error {
		got = append(got, env)
		return nil
	})

	aggregateID := uuid.New()
	event := domain.NewBaseEvent(aggregateID, "WaitlistEntry", "waitlist.joined")
	event.SetMetadata(domain.EventMetadata{CorrelationID: "corr-1"})

	require.NoError(t, eventbus.PublishEvent(context.Background(), bus, event, joined{Email: "a@b.co"}))

	require.Len(t, got, 1)
	assert.Equal(t, event.EventID(), got[0].EventID)
	assert.Equal(t, aggregateID, got[0].AggregateID)
	assert.Equal(t, "corr-1", got[0].Metadata.CorrelationID)
	assert.Nil(t, got[0].Metadata.UserID)

	var payload joined
	require.NoError(t, json.Unmarshal(got[0].Payload, &payload))
	assert.Equal(t, "a@b.co", payload.Email)
}

func TestInProcessEventBus_WildcardAndRouting(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	var all, other int
	bus.Subscribe("#", func(ctx context.Context, env *eventbus.Envelope) error { all++; return nil })
	bus.Subscribe("other.event", func(ctx context.Context, env *eventbus.Envelope) error { other++; return nil })

	event := domain.NewBaseEvent(uuid.New(), "WaitlistEntry", "waitlist.joined")
	require.NoError(t, eventbus.PublishEvent(context.Background(), bus, event, nil))

	assert.Equal(t, 1, all)
	assert.Equal(t, 0, other)
}

func TestInProcessEventBus_HandlerErrorsAreSwallowed(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	calls := 0
	bus.Subscribe("waitlist.joined", func(ctx context.Context, env *eventbus.Envelope) error {
		calls++
		return errors.New("boom")
	})
	bus.Subscribe("waitlist.joined", func(ctx context.Context, env *eventbus.Envelope) error {
		calls++
		return nil
	})

	event := domain.NewBaseEvent(uuid.New(), "WaitlistEntry", "waitlist.joined")
	assert.NoError(t, eventbus.PublishEvent(context.Background(), bus, event, nil))
	assert.Equal(t, 2, calls)
}

func TestInProcessEventBus_InvalidPayload(t *testing.T) {
	bus := eventbus.NewInProcessEventBus(nil)
	assert.NoError(t, bus.Publish(context.Background(), "waitlist.joined", []byte("not json")))
}

func TestEncode_UserID(t *testing.T) {
	userID := uuid.New()
	event := domain.NewBaseEvent(uuid.New(), "Subscription", "billing.subscription.updated")
	event.SetMetadata(domain.EventMetadata{UserID: userID})

	data, err := eventbus.Encode(event, map[string]string{"status": "active"})
	require.NoError(t, err)

	var env eventbus.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	require.NotNil(t, env.Metadata.UserID)
	assert.Equal(t, userID, *env.Metadata.UserID)
	assert.Equal(t, "billing.subscription.updated", env.RoutingKey)
}

func TestNoopPublisher(t *testing.T) {
	p := eventbus.NewNoopPublisher(nil)
	assert.NoError(t, p.Publish(context.Background(), "x", []byte("{}")))
	assert.NoError(t, p.Close())
}
