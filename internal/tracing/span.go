package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Run calls fn inside a span named name. The session id of ctx, if any, is
// added to attrs. An error returned by fn is recorded on the span and
// returned unchanged. With a nil tracer fn runs against the span already in
// ctx, which is a no-op span when there is none.
func Run(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context, trace.Span) error, attrs ...attribute.KeyValue) error {
	if tracer == nil {
		return fn(ctx, trace.SpanFromContext(ctx))
	}

	if id := SessionIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String(AttrSessionID, id))
	}
	ctx, span := tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	if err := fn(ctx, span); err != nil {
		RecordError(span, err)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// RecordError marks span as failed with err.
func RecordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	span.SetStatus(codes.Error, err.Error())
}
