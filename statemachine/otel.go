package statemachine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "statemachine"

// startAdvanceSpan creates the span covering one Advance call.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startAdvanceSpan(ctx context.Context, machine, from string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "statemachine.advance")
	span.SetAttributes(
		attribute.String("machine", machine),
		attribute.String("from", from),
	)

	return ctx, span
}

// startJumpSpan creates the span covering one Jump call.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startJumpSpan(ctx context.Context, machine, from, to string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "statemachine.jump")
	span.SetAttributes(
		attribute.String("machine", machine),
		attribute.String("from", from),
		attribute.String("to", to),
	)

	return ctx, span
}

// startActionSpan creates the span for a post-action.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startActionSpan(ctx context.Context, machine, action, state string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "action."+action)
	span.SetAttributes(
		attribute.String("machine", machine),
		attribute.String("action", action),
		attribute.String("state", state),
	)

	return ctx, span
}
