package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName scopes every span the console emits: gateway calls, mutation commands,
// event publishing and audit writes all start from StartSpan.
const tracerName = "github.com/samadhanbodkhe/gudworld-admin"

// StartSpan starts a span on the global tracer, which is a no-op until Initialize exports traces.
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, spanName, opts...)
}

// recording guards the helpers below. Spans from the no-op provider are never recording,
// so mutations pay nothing for attributes when tracing is off.
func recording(span trace.Span) bool {
	return span != nil && span.IsRecording()
}

// AddSpanAttributes tags a span, typically with order.id and the mutation kind.
func AddSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if !recording(span) {
		return
	}
	span.SetAttributes(attrs...)
}

// AddSpanEvent marks a point inside a mutation, such as a busy rejection or cache
// invalidation after success.
func AddSpanEvent(span trace.Span, eventName string, attrs ...attribute.KeyValue) {
	if !recording(span) {
		return
	}
	span.AddEvent(eventName, trace.WithAttributes(attrs...))
}

// RecordSpanError marks the span failed. Validation rejections and upstream errors
// both land here; the error text is what the console would show.
func RecordSpanError(span trace.Span, err error) {
	if !recording(span) || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func SetSpanSuccess(span trace.Span) {
	if !recording(span) {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// TraceID returns the hex trace id carried by ctx, or "".
func TraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// SpanID returns the hex span id carried by ctx, or "". Log records pair it with TraceID.
func SpanID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasSpanID() {
		return spanCtx.SpanID().String()
	}
	return ""
}
