package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel"
	"go.trai.ch/mirror/internal/core/ports"
)

// TracerNodeID provides the tracer backed by the global OpenTelemetry provider.
const TracerNodeID graft.ID = "adapter.tracer"

// MetricsNodeID provides the cache counters backed by the global OpenTelemetry meter provider.
const MetricsNodeID graft.ID = "adapter.metrics"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewOTelTracer(otel.GetTracerProvider()), nil
		},
	})

	graft.Register(graft.Node[ports.Metrics]{
		ID:        MetricsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Metrics, error) {
			return NewOTelMetrics(otel.GetMeterProvider())
		},
	})
}
