// Package tracing wires OpenTelemetry as ambient infrastructure around
// each Transition Executor apply call and each Scheduler job (SPEC_FULL
// §1), since this module has no HTTP layer of its own to hang
// otelhttp middleware from. Grounded on the teacher's
// otel.Tracer(...).Start(ctx, name) call-site pattern in
// internal/handler/http/v1/test_trace.go, generalized into one helper
// used by every traced component instead of repeating it per handler.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "hotel-reservation-engine"

var tracer = otel.Tracer(serviceName)

// Init configures the global TracerProvider to export spans via OTLP
// gRPC to endpoint. Call once during internal/app wiring; Shutdown
// must be called on graceful shutdown to flush pending spans.
func Init(ctx context.Context, endpoint string) (shutdown func(context.Context) error, err error) {
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	tracer = provider.Tracer(serviceName)

	return provider.Shutdown, nil
}

// StartStep starts a span named name, the unit used around each
// Executor apply call and Scheduler job (SPEC_FULL §4.2, §4.6).
func StartStep(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}
