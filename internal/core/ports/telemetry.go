package ports

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Background marks spans of detached background refreshes.
	Background bool
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithBackground marks the span as belonging to a background refresh.
func WithBackground() SpanOption {
	return func(c *SpanConfig) {
		c.Background = true
	}
}

// Metrics receives cache lifecycle events, labelled by namespace.
type Metrics interface {
	// Hit is called when a read is answered from cache.
	Hit(namespace string)
	// Miss is called when a read has to wait on a retrieval.
	Miss(namespace string)
	// Revalidation is called when a background refresh is scheduled.
	Revalidation(namespace string)
	// StaleWriteIgnored is called when an empty refresh was not allowed to replace cached data.
	StaleWriteIgnored(namespace string)
	// Expired is called with the number of rows removed by an expiry sweep.
	Expired(namespace string, n int)
	// NetworkFailure is called when a retrieval fails.
	NetworkFailure(namespace string)
}
