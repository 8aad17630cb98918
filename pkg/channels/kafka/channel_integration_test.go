package kafka_test

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkaTc "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/dukex/flowdesk/pkg/channels/kafka"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/events"
)

func TestCreateChannel_DeliversThroughKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Kafka container test in short mode")
	}

	ctx := t.Context()

	container, err := kafkaTc.Run(ctx, "confluentinc/confluent-local:7.7.0", testcontainers.WithEnv(map[string]string{
		"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
	}))
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate Kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	logger := slog.Default()

	pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), brokers, "flowdesk-test")
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub, logger)
	t.Cleanup(func() { _ = bus.Close() })

	var received atomic.Value

	require.NoError(t, bus.Handle(events.AgentDeletedEvent, func(_ context.Context, event any) error {
		received.Store(event.(*events.AgentDeleted).AgentID)

		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "agent-1", events.NewAgentDeleted("agent-1", "owner-1")))
	require.NoError(t, bus.Subscribe(ctx))

	assert.Eventually(t, func() bool {
		return received.Load() == "agent-1"
	}, 60*time.Second, 100*time.Millisecond)
}
