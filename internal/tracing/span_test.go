package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func recordingTracer() (trace.Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return provider.Tracer("test"), recorder
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestRun_Success(t *testing.T) {
	tracer, recorder := recordingTracer()
	ctx := ContextWithSessionID(context.Background(), "session-1")

	called := false
	err := Run(ctx, tracer, SpanScan, func(ctx context.Context, span trace.Span) error {
		called = true
		require.True(t, span.SpanContext().IsValid())
		require.Equal(t, span.SpanContext(), trace.SpanFromContext(ctx).SpanContext())
		span.SetAttributes(attribute.Int(AttrScanTokens, 3))
		return nil
	}, attribute.String(AttrLexer, "SQL"))
	require.NoError(t, err)
	require.True(t, called)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, SpanScan, spans[0].Name())
	require.Equal(t, codes.Ok, spans[0].Status().Code)
	a := attrs(spans[0])
	require.Equal(t, "SQL", a[AttrLexer].AsString())
	require.Equal(t, "session-1", a[AttrSessionID].AsString())
	require.EqualValues(t, 3, a[AttrScanTokens].AsInt64())
}

func TestRun_Error(t *testing.T) {
	tracer, recorder := recordingTracer()
	boom := errors.New("boom")

	err := Run(context.Background(), tracer, SpanHighlight, func(context.Context, trace.Span) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Equal(t, "boom", spans[0].Status().Description)
	require.Equal(t, "boom", attrs(spans[0])[AttrErrorMessage].AsString())
	require.Len(t, spans[0].Events(), 1, "RecordError adds an exception event")
	_, hasSession := attrs(spans[0])[AttrSessionID]
	require.False(t, hasSession)
}

func TestRun_NilTracer(t *testing.T) {
	err := Run(context.Background(), nil, SpanScan, func(_ context.Context, span trace.Span) error {
		require.False(t, span.SpanContext().IsValid())
		span.SetAttributes(attribute.Int(AttrScanTokens, 1))
		return nil
	})
	require.NoError(t, err)
}

func TestRun_NestedSpans(t *testing.T) {
	tracer, recorder := recordingTracer()
	err := Run(context.Background(), tracer, SpanHighlight, func(ctx context.Context, _ trace.Span) error {
		return Run(ctx, tracer, SpanScan, func(context.Context, trace.Span) error { return nil })
	})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, SpanScan, spans[0].Name())
	require.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
