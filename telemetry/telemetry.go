// Package telemetry sets up OpenTelemetry tracing for the benchmark CLI.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/amp-labs/amp-flat/logger"
	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// Config holds the OpenTelemetry configuration. The variable names are the
// standard OTEL_* ones, read without a prefix.
type Config struct {
	ServiceName    string        `envconfig:"OTEL_SERVICE_NAME"`
	ServiceVersion string        `envconfig:"OTEL_SERVICE_VERSION" default:"1.0.0"`
	Endpoint       string        `envconfig:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	Enabled        bool          `envconfig:"OTEL_ENABLED" default:"false"`
	Timeout        time.Duration `envconfig:"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT" default:"5s"`
}

// LoadConfigFromEnv reads Config from the environment. serviceName is used
// when OTEL_SERVICE_NAME is unset.
func LoadConfigFromEnv(serviceName string) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("reading OTEL_* environment: %w", err)
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	return cfg, nil
}

// Exporting reports whether spans are sent to an OTLP collector.
func (c *Config) Exporting() bool {
	return c.Enabled && c.Endpoint != ""
}

// NewTracerProvider builds a tracer provider for config. Spans are always
// recorded; they are exported over OTLP/HTTP only when tracing is enabled and
// an endpoint is configured. Additional span processors (e.g. for tests) are
// attached as given.
func NewTracerProvider(ctx context.Context, config *Config, processors ...sdktrace.SpanProcessor) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}

	log := logger.Get(ctx)

	if config.Exporting() {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(config.Endpoint),
			otlptracehttp.WithTimeout(config.Timeout),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}

		opts = append(opts, sdktrace.WithBatcher(exporter))

		log.Info("OpenTelemetry tracing initialized",
			"service", config.ServiceName,
			"version", config.ServiceVersion,
			"endpoint", config.Endpoint)
	} else {
		log.Debug("OpenTelemetry export is disabled, spans stay in process")
	}

	return sdktrace.NewTracerProvider(opts...), nil
}

// Initialize builds a tracer provider and installs it, together with the
// W3C trace-context propagator, as the global default. The caller must shut
// the provider down.
func Initialize(ctx context.Context, config *Config) (*sdktrace.TracerProvider, error) {
	tp, err := NewTracerProvider(ctx, config)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}
