package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()

	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		unsetEnv(t,
			"OTEL_SERVICE_NAME",
			"OTEL_SERVICE_VERSION",
			"OTEL_ENABLED",
			"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
			"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT")

		cfg, err := LoadConfigFromEnv("flatbench")
		require.NoError(t, err)

		assert.Equal(t, "flatbench", cfg.ServiceName)
		assert.Equal(t, "1.0.0", cfg.ServiceVersion)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.False(t, cfg.Exporting())
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("OTEL_SERVICE_NAME", "bench-ci")
		t.Setenv("OTEL_ENABLED", "true")
		t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://collector:4318")
		t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "2s")

		cfg, err := LoadConfigFromEnv("flatbench")
		require.NoError(t, err)

		assert.Equal(t, "bench-ci", cfg.ServiceName)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
		assert.True(t, cfg.Exporting())
	})

	t.Run("enabled without endpoint does not export", func(t *testing.T) {
		cfg := &Config{Enabled: true}
		assert.False(t, cfg.Exporting())
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("OTEL_ENABLED", "maybe")

		_, err := LoadConfigFromEnv("flatbench")
		require.Error(t, err)
	})
}

func TestNewTracerProvider(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()

	tp, err := NewTracerProvider(t.Context(), &Config{ServiceName: "flatbench", ServiceVersion: "test"}, recorder)
	require.NoError(t, err)

	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(t.Context(), "unit")
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, "unit", recorder.Ended()[0].Name())

	service, ok := recorder.Ended()[0].Resource().Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "flatbench", service.AsString())
}
