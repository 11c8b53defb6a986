package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/combat-tracker/internal/telemetry"
)

func TestNoopTracer(t *testing.T) {
	_, span := telemetry.NoopTracer().Start(context.Background(), "encounter.attack")
	defer span.End()

	assert.False(t, span.IsRecording())
	assert.False(t, span.SpanContext().IsValid())
}

func TestSetup(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:4318")

	shutdown, err := telemetry.Setup(context.Background())
	require.NoError(t, err)

	_, span := telemetry.Tracer("encounter").Start(context.Background(), "encounter.attack")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// nothing listens on the endpoint; only a prompt return matters
	_ = shutdown(ctx)
}
