package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dukex/flowdesk/pkg/channels/gochannel"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/docstore"
	"github.com/dukex/flowdesk/pkg/secrets"
	"github.com/dukex/flowdesk/pkg/testutil"
)

func setupTestAPI(t *testing.T) (*API, persistence.Persistence) {
	t.Helper()

	logger := slog.Default()
	p := docstore.New(docstore.NewMemoryStore())

	pub, sub, err := gochannel.CreateTestChannel(watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub, logger)
	t.Cleanup(func() { _ = bus.Close() })

	sealer, err := secrets.NewSealer("test-secret", secrets.WithScryptN(1<<10))
	require.NoError(t, err)

	return NewAPI(logger, p, bus, sealer, noop.NewTracerProvider().Tracer("test")), p
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestAPI_RootEndpoint(t *testing.T) {
	t.Parallel()

	api, _ := setupTestAPI(t)

	status, body := get(t, api.App(), "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "flowdesk API", body)
}

func TestAPI_Liveness(t *testing.T) {
	t.Parallel()

	api, _ := setupTestAPI(t)

	status, body := get(t, api.App(), "/livez")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)
}

func TestAPI_HealthAndRoutesMounted(t *testing.T) {
	t.Parallel()

	api, _ := setupTestAPI(t)
	app := api.App()

	status, body := get(t, app, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "healthy")

	status, body = get(t, app, "/agents?owner_id="+testutil.DefaultOwnerID)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"agents":[]`)
}

func TestAPI_PublishDueUpdates(t *testing.T) {
	t.Parallel()

	api, p := setupTestAPI(t)
	ctx := t.Context()

	due, err := api.services.Updates.Create(ctx, testutil.CreateTestUpdate(testutil.ScheduledAt(time.Now().Add(-time.Minute))))
	require.NoError(t, err)

	later, err := api.services.Updates.Create(ctx, testutil.CreateTestUpdate(testutil.ScheduledAt(time.Now().Add(time.Hour))))
	require.NoError(t, err)

	api.PublishDueUpdates(ctx)

	stored, err := p.Updates().GetByID(ctx, due.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.PublishedAt)

	stored, err = p.Updates().GetByID(ctx, later.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PublishedAt)
}

func TestAPI_Run_ClearsAgentReferencesAfterDelete(t *testing.T) {
	t.Parallel()

	api, p := setupTestAPI(t)
	ctx := t.Context()

	agent, err := api.services.Agents.Create(ctx, testutil.CreateTestAgent())
	require.NoError(t, err)

	automation, err := api.services.Automations.Create(ctx, testutil.CreateTestAutomation(testutil.WithAgent(agent.ID)))
	require.NoError(t, err)

	require.NoError(t, api.reconciler.Register(api.eventBus))
	require.NoError(t, api.eventBus.Subscribe(ctx))

	require.NoError(t, api.services.Agents.Delete(ctx, agent.ID))

	assert.Eventually(t, func() bool {
		stored, err := p.Automations().GetByID(ctx, automation.ID)

		return err == nil && stored.AgentID == nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestAPI_Run_RejectsInvalidSchedule(t *testing.T) {
	t.Parallel()

	api, _ := setupTestAPI(t)

	err := api.Run(t.Context(), 0, "not a cron")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid publish schedule")
}
