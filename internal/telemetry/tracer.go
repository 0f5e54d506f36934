package telemetry

import (
	"context"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HTTPMiddleware wraps h with server spans and request metrics.
func HTTPMiddleware(h http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(h, operation)
}

// StartEventSpan opens a span around one UI event.
func StartEventSpan(ctx context.Context, event, gameID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("ui.event", event)}
	if gameID != "" {
		attrs = append(attrs, GameIDKey.String(gameID))
	}
	return otel.Tracer(instrumentationName).Start(ctx, "ui."+event, trace.WithAttributes(attrs...))
}
