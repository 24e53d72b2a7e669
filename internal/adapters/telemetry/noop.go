package telemetry

import (
	"context"

	"go.trai.ch/mirror/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that records nothing.
type NoOpTracer struct{}

// Start returns ctx unchanged and a span that does nothing.
func (NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, NoOpSpan{}
}

// NoOpSpan is a ports.Span that does nothing.
type NoOpSpan struct{}

func (NoOpSpan) End()                     {}
func (NoOpSpan) RecordError(error)        {}
func (NoOpSpan) SetAttribute(string, any) {}

// NoOpMetrics is a ports.Metrics that discards every event.
type NoOpMetrics struct{}

func (NoOpMetrics) Hit(string)               {}
func (NoOpMetrics) Miss(string)              {}
func (NoOpMetrics) Revalidation(string)      {}
func (NoOpMetrics) StaleWriteIgnored(string) {}
func (NoOpMetrics) Expired(string, int)      {}
func (NoOpMetrics) NetworkFailure(string)    {}

var (
	_ ports.Tracer  = NoOpTracer{}
	_ ports.Span    = NoOpSpan{}
	_ ports.Metrics = NoOpMetrics{}
)
