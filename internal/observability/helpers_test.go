package observability_test

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

func traceSpanValid(ctx context.Context) bool {
	return trace.SpanContextFromContext(ctx).IsValid()
}
