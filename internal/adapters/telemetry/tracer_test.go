package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/mirror/internal/adapters/telemetry"
	"go.trai.ch/mirror/internal/core/ports"
)

func newRecordingTracer(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return telemetry.NewOTelTracer(tp), recorder
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		out[string(kv.Key)] = kv.Value
	}
	return out
}

func TestOTelTracer_Attributes(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "cache.fetch_list")
	span.SetAttribute("namespace", "roles")
	span.SetAttribute("page", 2)
	span.SetAttribute("from_cache", true)
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("owners", []string{"a", "b"})
	span.SetAttribute("other", struct{ N int }{N: 7})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "cache.fetch_list", ended[0].Name())

	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "roles", attrs["namespace"].AsString())
	assert.Equal(t, int64(2), attrs["page"].AsInt64())
	assert.True(t, attrs["from_cache"].AsBool())
	assert.InDelta(t, 0.5, attrs["ratio"].AsFloat64(), 0)
	assert.Equal(t, []string{"a", "b"}, attrs["owners"].AsStringSlice())
	assert.Equal(t, "{7}", attrs["other"].AsString())
}

func TestOTelTracer_RecordError(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "cache.refresh")
	span.RecordError(nil)
	span.RecordError(errors.New("retrieve failed"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "retrieve failed", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
}

func TestOTelTracer_BackgroundStartsLinkedRoot(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	ctx, parent := tracer.Start(context.Background(), "cache.fetch_list")
	_, child := tracer.Start(ctx, "cache.revalidate", ports.WithBackground())
	child.End()
	parent.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	bg, fg := ended[0], ended[1]
	assert.Equal(t, "cache.revalidate", bg.Name())
	assert.False(t, bg.Parent().IsValid())
	assert.NotEqual(t, fg.SpanContext().TraceID(), bg.SpanContext().TraceID())
	require.Len(t, bg.Links(), 1)
	assert.Equal(t, fg.SpanContext().SpanID(), bg.Links()[0].SpanContext.SpanID())
	assert.True(t, attrMap(bg.Attributes())[telemetry.BackgroundAttr].AsBool())
}

func TestOTelTracer_ForegroundNestsUnderParent(t *testing.T) {
	tracer, recorder := newRecordingTracer(t)

	ctx, parent := tracer.Start(context.Background(), "cache.fetch_list")
	_, child := tracer.Start(ctx, "store.view")
	child.End()
	parent.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func TestNoOpTracer(t *testing.T) {
	ctx := context.Background()
	got, span := telemetry.NoOpTracer{}.Start(ctx, "ignored", ports.WithBackground())

	assert.Equal(t, ctx, got)
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
}
