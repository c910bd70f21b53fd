package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"

	"github.com/tuanvumaihuynh/stock-assistant/internal/config"
)

func TestInitTracer(t *testing.T) {
	t.Run("Should install propagator without a collector", func(t *testing.T) {
		cleanup, err := InitTracer(context.Background(), config.Otel{ServiceName: "stock-assistant"})
		require.NoError(t, err)
		assert.NoError(t, cleanup(context.Background()))

		assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
	})
}

func TestNewResource(t *testing.T) {
	res := newResource(config.Otel{ServiceName: "stock-assistant", K8sPodName: "pod-1"})

	value, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "stock-assistant", value.AsString())

	_, ok = res.Set().Value(semconv.K8SNamespaceNameKey)
	assert.False(t, ok)
}
