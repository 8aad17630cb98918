package persistence_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/flowdesk/pkg/persistence"
)

func TestStandardizedErrors(t *testing.T) {
	t.Parallel()

	t.Run("entity sentinels match ErrNotFound", func(t *testing.T) {
		for _, err := range []error{
			persistence.ErrAgentNotFound,
			persistence.ErrAutomationNotFound,
			persistence.ErrFAQNotFound,
			persistence.ErrUpdateNotFound,
			persistence.ErrIntegrationNotFound,
		} {
			assert.True(t, persistence.IsNotFound(err), err.Error())
		}
	})

	t.Run("record error unwraps", func(t *testing.T) {
		err := persistence.NewRecordError("GetByID", persistence.CollectionAgents, "agent-123", persistence.ErrAgentNotFound)

		assert.True(t, errors.Is(err, persistence.ErrAgentNotFound))
		assert.True(t, persistence.IsNotFound(err))
		assert.False(t, errors.Is(err, persistence.ErrAutomationNotFound))
	})

	t.Run("record error contains context", func(t *testing.T) {
		err := persistence.NewRecordError("Save", persistence.CollectionFAQs, "faq-1", errors.New("disk full"))

		assert.Contains(t, err.Error(), "Save")
		assert.Contains(t, err.Error(), "faq-1")
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("not found by collection", func(t *testing.T) {
		assert.Equal(t, persistence.ErrUpdateNotFound, persistence.NotFoundFor(persistence.CollectionUpdates))
		assert.Equal(t, persistence.ErrNotFound, persistence.NotFoundFor("unknown"))
	})
}
