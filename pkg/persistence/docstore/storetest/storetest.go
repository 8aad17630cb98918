// Package storetest holds the behaviour every docstore.Store must share. Providers call
// Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/docstore"
)

// Run exercises a store through the full repository surface. newStore must return an
// empty store.
func Run(t *testing.T, newStore func(t *testing.T) docstore.Store) {
	t.Helper()

	t.Run("raw store", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Get(ctx, "agents", "missing")
		require.ErrorIs(t, err, persistence.ErrNotFound)

		require.NoError(t, store.Put(ctx, "agents", "a1", []byte(`{"id":"a1"}`)))
		require.NoError(t, store.Put(ctx, "agents", "a1", []byte(`{"id":"a1","name":"x"}`)))
		require.NoError(t, store.Put(ctx, "faqs", "f1", []byte(`{"id":"f1"}`)))

		body, err := store.Get(ctx, "agents", "a1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"a1","name":"x"}`, string(body))

		bodies, err := store.List(ctx, "agents")
		require.NoError(t, err)
		assert.Len(t, bodies, 1)

		require.NoError(t, store.Delete(ctx, "agents", "a1"))
		require.NoError(t, store.Delete(ctx, "agents", "a1"))

		bodies, err = store.List(ctx, "agents")
		require.NoError(t, err)
		assert.Empty(t, bodies)

		assert.NoError(t, store.HealthCheck(ctx))
	})

	t.Run("agent repository", func(t *testing.T) {
		repo := docstore.New(newStore(t)).Agents()
		ctx := context.Background()

		agent := &models.Agent{
			Record:      models.Record{OwnerID: "user-1", IsActive: true},
			Name:        "Support Bot",
			Model:       models.DefaultAgentModel,
			Temperature: models.DefaultTemperature,
		}
		require.NoError(t, repo.Save(ctx, agent))
		require.NotEmpty(t, agent.ID)
		assert.False(t, agent.CreatedAt.IsZero())

		loaded, err := repo.GetByID(ctx, agent.ID)
		require.NoError(t, err)
		assert.Equal(t, agent.Name, loaded.Name)
		assert.True(t, agent.CreatedAt.Equal(loaded.CreatedAt))

		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, persistence.ErrAgentNotFound)

		require.NoError(t, repo.Delete(ctx, agent.ID))
		_, err = repo.GetByID(ctx, agent.ID)
		require.True(t, persistence.IsNotFound(err))
	})

	t.Run("automation graph round trip", func(t *testing.T) {
		p := docstore.New(newStore(t))
		ctx := context.Background()

		g := graph.New()
		trigger, err := g.AddNode(graph.KindTrigger, "New Message", "", graph.Position{X: 10, Y: 20.5})
		require.NoError(t, err)
		action, err := g.AddNode(graph.KindAction, "Send Reply", "Answer politely", graph.Position{X: 200})
		require.NoError(t, err)
		_, err = g.Connect(trigger, action)
		require.NoError(t, err)

		agentID := "agent-1"
		automation := &models.Automation{
			Record:   models.Record{OwnerID: "user-1"},
			Name:     "Auto reply",
			AgentID:  &agentID,
			FlowData: g.Serialize(),
		}
		require.NoError(t, p.Automations().Save(ctx, automation))

		loaded, err := p.Automations().GetByID(ctx, automation.ID)
		require.NoError(t, err)
		assert.Equal(t, automation.FlowData, loaded.FlowData)

		linked, err := p.Automations().ListByAgent(ctx, agentID)
		require.NoError(t, err)
		require.Len(t, linked, 1)
		assert.Equal(t, automation.ID, linked[0].ID)

		linked, err = p.Automations().ListByAgent(ctx, "other")
		require.NoError(t, err)
		assert.Empty(t, linked)
	})

	t.Run("list pages and sorts", func(t *testing.T) {
		repo := docstore.New(newStore(t)).FAQs()
		ctx := context.Background()

		for _, q := range []string{"Where?", "How?", "When?", "Why?"} {
			require.NoError(t, repo.Save(ctx, &models.FAQ{
				Record:   models.Record{OwnerID: "user-1"},
				Question: q,
				Answer:   "Because.",
			}))
			time.Sleep(2 * time.Millisecond)
		}

		result, err := repo.List(ctx, persistence.ListOptions{SortBy: "name", SortOrder: "asc", Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), result.TotalCount)
		assert.True(t, result.HasNextPage)
		require.Len(t, result.Items, 3)
		assert.Equal(t, "How?", result.Items[0].Question)

		result, err = repo.List(ctx, persistence.ListOptions{})
		require.NoError(t, err)
		require.Len(t, result.Items, 4)
		assert.Equal(t, "Why?", result.Items[0].Question)

		_, err = repo.List(ctx, persistence.ListOptions{SortBy: "question"})
		assert.ErrorIs(t, err, persistence.ErrInvalidSortField)
	})
}
