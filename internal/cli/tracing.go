package cli

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/aspects/pkg/version"
)

// setupTracing installs a global tracer provider exporting to endpoint. With
// no endpoint, the default no-op provider stays in place and the returned
// shutdown func is nil.
func setupTracing(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cmdName),
			attribute.String("service.version", version.GetVersion()),
		)),
	)
	otel.SetTracerProvider(tp)

	slog.DebugContext(ctx, "exporting traces", slog.String("endpoint", endpoint))

	return tp.Shutdown, nil
}

// startSpan starts a span for a CLI command.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer("cli").Start(ctx, name)
}
