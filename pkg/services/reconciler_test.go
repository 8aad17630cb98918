package services_test

import (
	"log/slog"
		"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/flowdesk/pkg/channels/gochannel"
	"github.com/dukex/flowdesk/pkg/eventbus"
	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/services"
	"github.com/dukex/flowdesk/pkg/testutil"
)

func TestReconciler_ClearAgent(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)

	agent, err := services.NewAgent(p).Create(t.Context(), testutil.CreateTestAgent())
	require.NoError(t, err)

	automation, err := services.NewAutomation(p).Create(t.Context(), testutil.CreateTestAutomation(testutil.WithAgent(agent.ID)))
	require.NoError(t, err)

	faq, err := services.NewFAQ(p).Create(t.Context(), testutil.CreateTestFAQ(func(f *models.FAQ) { f.AgentID = &agent.ID }))
	require.NoError(t, err)

	unrelated, err := services.NewFAQ(p).Create(t.Context(), testutil.CreateTestFAQ())
	require.NoError(t, err)

	reconciler := services.NewReconciler(p, slog.Default())

	cleared, err := reconciler.ClearAgent(t.Context(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	storedAutomation, err := p.Automations().GetByID(t.Context(), automation.ID)
	require.NoError(t, err)
	assert.Nil(t, storedAutomation.AgentID)

	storedFAQ, err := p.FAQs().GetByID(t.Context(), faq.ID)
	require.NoError(t, err)
	assert.Nil(t, storedFAQ.AgentID)

	storedUnrelated, err := p.FAQs().GetByID(t.Context(), unrelated.ID)
	require.NoError(t, err)
	assert.Equal(t, unrelated.UpdatedAt, storedUnrelated.UpdatedAt)

	cleared, err = reconciler.ClearAgent(t.Context(), agent.ID)
	require.NoError(t, err)
	assert.Zero(t, cleared)
}

func TestReconciler_AgentDeletedEvent(t *testing.T) {
	t.Parallel()

	p := newPersistence(t)
	logger := slog.Default()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub, logger)

	reconciler := services.NewReconciler(p, logger)
	require.NoError(t, reconciler.Register(bus))
	require.NoError(t, bus.Subscribe(t.Context()))

	agents := services.NewAgent(p, services.WithPublisher(bus))

	agent, err := agents.Create(t.Context(), testutil.CreateTestAgent())
	require.NoError(t, err)

	automation, err := services.NewAutomation(p).Create(t.Context(), testutil.CreateTestAutomation(testutil.WithAgent(agent.ID)))
	require.NoError(t, err)

	require.NoError(t, agents.Delete(t.Context(), agent.ID))

	assert.Eventually(t, func() bool {
		stored, err := p.Automations().GetByID(t.Context(), automation.ID)

		return err == nil && stored.AgentID == nil
	}, 2*time.Second, 10*time.Millisecond)
}
