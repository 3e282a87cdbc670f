// Package telemetry wires OpenTelemetry tracing for the staircase binary.
package telemetry

import (
	"context"

	"github.com/alexanderramin/staircase/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceName identifies spans exported by this binary.
const ServiceName = "staircase"

// Settings is the tracing slice of config.Config: Enabled mirrors
// STAIRCASE_OTEL_ENABLED and Endpoint is STAIRCASE_OTEL_ENDPOINT.
type Settings struct {
	Enabled  bool
	Endpoint string
}

// SettingsFrom takes the tracing fields out of the loaded process config.
func SettingsFrom(cfg *config.Config) Settings {
	return Settings{Enabled: cfg.TracingEnabled(), Endpoint: cfg.OTelEndpoint}
}

// Setup installs a global tracer provider exporting to an OTLP HTTP endpoint.
//
// Tracing is opt-in: when the endpoint is empty or tracing is disabled, Setup
// returns a no-op shutdown function and registers nothing, so spans started
// by the service layer are dropped.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, s Settings) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !s.Enabled || s.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(s.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
