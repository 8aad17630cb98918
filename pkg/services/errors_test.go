package services_test

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/dukex/flowdesk/pkg/graph"
	"github.com/dukex/flowdesk/pkg/services"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		validation bool
		conflict   bool
	}{
		{"invalid request", services.NewValidationError("op", "CODE", "bad", services.ErrInvalidRequest), true, false},
		{"unknown platform", services.ErrUnknownPlatform, true, false},
		{"activation", services.NewConflictError("op", "CODE", services.ErrActivationRejected, graph.ErrTriggerRequired), false, true},
		{"already published", services.NewConflictError("op", "CODE", services.ErrAlreadyPublished, nil), false, true},
		{"other", errors.New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.validation, services.IsValidationError(tt.err))
			assert.Equal(t, tt.conflict, services.IsConflictError(tt.err))
		})
	}
}

func TestNewConflictError_KeepsCause(t *testing.T) {
	t.Parallel()

	err := services.NewConflictError("ActivateAutomation", "ACTIVATION_REJECTED", services.ErrActivationRejected, graph.ErrEmptyGraph)

	assert.ErrorIs(t, err, services.ErrActivationRejected)
	assert.ErrorIs(t, err, graph.ErrEmptyGraph)
	assert.Contains(t, err.Error(), "ActivateAutomation")
}

func TestValidationErrors(t *testing.T) {
	t.Parallel()

	type input struct {
		Name string `validate:"required"`
	}

	verr := validator.New().Struct(input{})
	err := services.NewValidationError("op", "VALIDATION_FAILED", verr.Error(), errors.Join(services.ErrInvalidRequest, verr))

	fields, ok := services.ValidationErrors(err)
	assert.True(t, ok)
	assert.Len(t, fields, 1)

	_, ok = services.ValidationErrors(errors.New("plain"))
	assert.False(t, ok)
}
