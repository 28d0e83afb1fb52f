package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/aspects/pkg/log"
)

// WithTracing wraps a tool handler with OpenTelemetry tracing, structured
// logging and Prometheus metrics. Each call gets a span, logs carry its trace
// ID, and the call is counted by tool and outcome.
func WithTracing[In, Out any](tracer trace.Tracer, handler mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		name := req.Params.Name
		start := time.Now()

		ctx, span := tracer.Start(ctx, name)
		defer span.End()

		logger := log.WithContext(ctx)

		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", name),
			slog.Any("progress_token", req.Params.GetProgressToken()),
			slog.Any("args", in),
		)

		result, out, err := handler(ctx, req, in)
		observe(name, start, err)

		if err != nil {
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", name),
				slog.Any("error", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			logger.DebugContext(ctx, "tool call completed successfully",
				slog.String("name", name),
				slog.Duration("duration", time.Since(start)),
			)
		}

		return result, out, err
	}
}
