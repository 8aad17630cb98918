package eventbus_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowdesk/pkg/channels/gochannel"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
)

func newBus(t *testing.T) *eventbus.WatermillEventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub, slog.New(slog.DiscardHandler))
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_DispatchesByType(t *testing.T) {
	t.Parallel()

	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	received := make(chan *events.AgentDeleted, 1)

	require.NoError(t, bus.Handle(events.AgentDeletedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.AgentDeleted)

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))

	// An event nobody handles is dropped without blocking the next one.
	require.NoError(t, bus.Publish(ctx, "auto-1", events.NewAutomationSaved("auto-1", "user-1", 2, 1)))
	require.NoError(t, bus.Publish(ctx, "agent-1", events.NewAgentDeleted("agent-1", "user-1")))

	select {
	case event := <-received:
		assert.Equal(t, "agent-1", event.AgentID)
		assert.Equal(t, "user-1", event.OwnerID)
	case <-time.After(5 * time.Second):
		t.Fatal("agent.deleted was not delivered")
	}
}

func TestWatermillEventBus_RedeliversOnHandlerError(t *testing.T) {
	t.Parallel()

	bus := newBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var calls atomic.Int32

	attempts := make(chan struct{}, 4)

	require.NoError(t, bus.Handle(events.AgentDeletedEvent, func(context.Context, any) error {
		attempts <- struct{}{}

		if calls.Add(1) == 1 {
			return errors.New("temporary failure")
		}

		return nil
	}))
	require.NoError(t, bus.Subscribe(ctx))
	require.NoError(t, bus.Publish(ctx, "agent-1", events.NewAgentDeleted("agent-1", "user-1")))

	for range 2 {
		select {
		case <-attempts:
		case <-time.After(5 * time.Second):
			t.Fatal("handler was not retried")
		}
	}
}
