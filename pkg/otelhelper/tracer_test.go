package otelhelper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/dukex/flowdesk/pkg/otelhelper"
)

func TestStartSpan_SetError(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, span := otelhelper.StartSpan(context.Background(), tracer, "services.agent.create",
		attribute.String(otelhelper.AgentIDKey, "agent-1"))
	otelhelper.SetError(span, errors.New("boom"), attribute.String(otelhelper.OwnerIDKey, "user-1"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "services.agent.create", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String(otelhelper.AgentIDKey, "agent-1"))
	require.NotEmpty(t, spans[0].Events())
}

func TestNewTracer_Disabled(t *testing.T) {
	t.Parallel()

	tracer, shutdown, err := otelhelper.NewTracer(context.Background(), "flowdesk-test", false)
	require.NoError(t, err)
	require.NotNil(t, tracer)
	assert.NoError(t, shutdown(context.Background()))
}
