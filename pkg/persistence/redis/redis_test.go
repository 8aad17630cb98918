package redis_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dukex/flowdesk/pkg/persistence/docstore"
	"github.com/dukex/flowdesk/pkg/persistence/docstore/storetest"
	"github.com/dukex/flowdesk/pkg/persistence/redis"
)

func startRedis(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.PortEndpoint(ctx, "6379/tcp", "redis")
	require.NoError(t, err)

	return endpoint
}

func TestStore_Conformance(t *testing.T) {
	endpoint := startRedis(t)
	db := 0

	storetest.Run(t, func(t *testing.T) docstore.Store {
		// Each subtest gets its own logical database so they start empty.
		db++

		store, err := redis.NewStore(context.Background(), endpoint+"/"+strconv.Itoa(db))
		require.NoError(t, err)

		t.Cleanup(func() { _ = store.Close(context.Background()) })

		return store
	})
}

func TestNewStore_InvalidURL(t *testing.T) {
	_, err := redis.NewStore(context.Background(), "http://not-redis")
	require.Error(t, err)
}
