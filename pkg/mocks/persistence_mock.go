package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dukex/flowdesk/pkg/models"
	"github.com/dukex/flowdesk/pkg/persistence"
)

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock
}

//nolint:ireturn
func (m *MockPersistence) Agents() persistence.AgentRepository {
	args := m.Called()

	return args.Get(0).(persistence.AgentRepository)
}

//nolint:ireturn
func (m *MockPersistence) Automations() persistence.AutomationRepository {
	args := m.Called()

	return args.Get(0).(persistence.AutomationRepository)
}

//nolint:ireturn
func (m *MockPersistence) FAQs() persistence.FAQRepository {
	args := m.Called()

	return args.Get(0).(persistence.FAQRepository)
}

//nolint:ireturn
func (m *MockPersistence) Updates() persistence.UpdateRepository {
	args := m.Called()

	return args.Get(0).(persistence.UpdateRepository)
}

//nolint:ireturn
func (m *MockPersistence) Integrations() persistence.IntegrationRepository {
	args := m.Called()

	return args.Get(0).(persistence.IntegrationRepository)
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// MockRepository is a mock implementation of persistence.Repository for any record type.
type MockRepository[T models.Document] struct {
	mock.Mock
}

func (m *MockRepository[T]) List(ctx context.Context, opts persistence.ListOptions) (*persistence.ListResult[T], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*persistence.ListResult[T]), args.Error(1)
}

//nolint:ireturn
func (m *MockRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero T

		return zero, args.Error(1)
	}

	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[T]) Save(ctx context.Context, record T) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockRepository[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockAgentLinkedRepository adds ListByAgent to MockRepository.
type MockAgentLinkedRepository[T models.AgentLinked] struct {
	MockRepository[T]
}

func (m *MockAgentLinkedRepository[T]) ListByAgent(ctx context.Context, agentID string) ([]T, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]T), args.Error(1)
}

type (
	MockAgentRepository       = MockRepository[*models.Agent]
	MockAutomationRepository  = MockAgentLinkedRepository[*models.Automation]
	MockFAQRepository         = MockAgentLinkedRepository[*models.FAQ]
	MockUpdateRepository      = MockRepository[*models.Update]
	MockIntegrationRepository = MockRepository[*models.Integration]
)
