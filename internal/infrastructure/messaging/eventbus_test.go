package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/domain/shared"
)

func TestInMemoryEventBus_Sync(t *testing.T) {
	bus := NewInMemoryEventBus(Config{AsyncMode: false})
	defer bus.Close()

	var got []shared.EventType
	require.NoError(t, bus.Subscribe(shared.EventMatchAccepted, func(e shared.Event) error {
		got = append(got, e.EventType())
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { return errors.New("boom") }))

	require.NoError(t, bus.Publish(shared.NewMatchEvent(shared.EventMatchAccepted, "m1", "1", "2", "2", 0.7)))
	require.NoError(t, bus.Publish(shared.NewMatchEvent(shared.EventMatchRejected, "m2", "1", "3", "3", 0.6)))

	assert.Equal(t, []shared.EventType{shared.EventMatchAccepted}, got)
	m := bus.Metrics()
	assert.Equal(t, int64(2), m.Published)
	assert.Equal(t, int64(3), m.Handled)
	assert.Equal(t, int64(2), m.Failed)
}

func TestInMemoryEventBus_AsyncAndClose(t *testing.T) {
	bus := NewInMemoryEventBus(DefaultConfig())

	var mu sync.Mutex
	count := 0
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(shared.NewMessageSentEvent("m1", "msg", "1", "2")))
	}
	bus.Wait()

	mu.Lock()
	assert.Equal(t, 5, count)
	mu.Unlock()

	require.NoError(t, bus.Close())
	assert.ErrorIs(t, bus.Publish(shared.NewMessageSentEvent("m1", "msg", "1", "2")), ErrEventBusClosed)
	assert.ErrorIs(t, bus.SubscribeAll(func(shared.Event) error { return nil }), ErrEventBusClosed)
}

func TestInMemoryEventBus_RecoversPanics(t *testing.T) {
	bus := NewInMemoryEventBus(Config{AsyncMode: false})
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { panic("bad handler") }))

	require.NoError(t, bus.Publish(shared.NewMatchEvent(shared.EventMatchRemoved, "m1", "1", "2", "1", 0.5)))
	assert.Equal(t, int64(1), bus.Metrics().Failed)
}

type recordingPublisher struct {
	channel string
	message any
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, message any) error {
	p.channel, p.message = channel, message
	return nil
}

func TestRedisForwarder(t *testing.T) {
	pub := &recordingPublisher{}
	handler := RedisForwarder(pub, time.Second)

	require.NoError(t, handler(shared.NewMatchEvent(shared.EventMatchProposed, "m1", "1", "2", "1", 0.8)))
	assert.Equal(t, ChannelEvents, pub.channel)

	env, ok := pub.message.(shared.EventEnvelope)
	require.True(t, ok)
	assert.Equal(t, shared.EventMatchProposed, env.Type)
	assert.Equal(t, "m1", env.AggregateID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "2", payload["receiver_id"])
}
