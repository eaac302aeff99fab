package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "shopagent"

// GetTracer returns the tracer for the agent.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartRunSpan starts a span covering one agent run.
func StartRunSpan(ctx context.Context, runID, model string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "agent.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("llm.model", model),
		),
	)
}

// StartToolSpan starts a span covering one tool invocation.
func StartToolSpan(ctx context.Context, toolName, callID string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "tool.call."+toolName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tool.name", toolName),
			attribute.String("tool.call_id", callID),
		),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
