package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// InstallTracer installs an in-process OpenTelemetry tracer provider,
// gated on OTEL_ENABLED, mirroring the teacher's env-gated tracer
// install but without an external exporter dependency: spans are kept
// in the provider's default (no-op-on-shutdown) pipeline, suitable for
// wiring a real OTLP exporter in later without touching call sites.
// Returns true if a tracer was installed.
func InstallTracer() bool {
	if strings.TrimSpace(os.Getenv("OTEL_ENABLED")) == "" {
		return false
	}
	serviceName := strings.TrimSpace(os.Getenv("OTEL_SERVICE_NAME"))
	if serviceName == "" {
		serviceName = "auctionengine"
	}
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(serviceName)
	return true
}

var tracer oteltrace.Tracer

// StartSpan opens a span named name if a tracer has been installed;
// otherwise it returns ctx unchanged and a no-op span.
func StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, oteltrace.Span) {
	if tracer == nil {
		return ctx, oteltrace.SpanFromContext(ctx)
	}
	opts := make([]oteltrace.SpanStartOption, 0, 1)
	if len(attrs) > 0 {
		kv := make([]attribute.KeyValue, 0, len(attrs))
		for k, v := range attrs {
			kv = append(kv, attribute.String(k, v))
		}
		opts = append(opts, oteltrace.WithAttributes(kv...))
	}
	return tracer.Start(ctx, name, opts...)
}
