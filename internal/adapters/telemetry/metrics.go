package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.trai.ch/mirror/internal/build"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/zerr"
)

// Counter names.
const (
	MetricHits              = "mirror.cache.hits"
	MetricMisses            = "mirror.cache.misses"
	MetricRevalidations     = "mirror.cache.revalidations"
	MetricStaleWriteIgnored = "mirror.cache.stale_writes_ignored"
	MetricExpired           = "mirror.cache.expired_records"
	MetricNetworkFailures   = "mirror.cache.network_failures"
)

// NamespaceAttr labels every counter.
const NamespaceAttr = "namespace"

// OTelMetrics implements ports.Metrics with one Int64Counter per event.
type OTelMetrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	revalidations metric.Int64Counter
	staleWrites   metric.Int64Counter
	expired       metric.Int64Counter
	failures      metric.Int64Counter
}

var _ ports.Metrics = (*OTelMetrics)(nil)

// NewOTelMetrics registers the cache counters on a meter from mp.
func NewOTelMetrics(mp metric.MeterProvider) (*OTelMetrics, error) {
	meter := mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(build.Version))

	m := &OTelMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.hits, MetricHits, "Reads answered from the local cache."},
		{&m.misses, MetricMisses, "Reads that waited on a retrieval."},
		{&m.revalidations, MetricRevalidations, "Background refreshes scheduled."},
		{&m.staleWrites, MetricStaleWriteIgnored, "Empty refreshes that did not replace cached data."},
		{&m.expired, MetricExpired, "Expired records removed by sweeps."},
		{&m.failures, MetricNetworkFailures, "Failed retrievals."},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "register counter"), "metric", c.name)
		}
		*c.dst = counter
	}
	return m, nil
}

func add(counter metric.Int64Counter, namespace string, n int) {
	counter.Add(context.Background(), int64(n), metric.WithAttributes(attribute.String(NamespaceAttr, namespace)))
}

// Hit counts a cache-served read.
func (m *OTelMetrics) Hit(namespace string) { add(m.hits, namespace, 1) }

// Miss counts a read that went to the network.
func (m *OTelMetrics) Miss(namespace string) { add(m.misses, namespace, 1) }

// Revalidation counts a scheduled background refresh.
func (m *OTelMetrics) Revalidation(namespace string) { add(m.revalidations, namespace, 1) }

// StaleWriteIgnored counts a refused empty overwrite.
func (m *OTelMetrics) StaleWriteIgnored(namespace string) { add(m.staleWrites, namespace, 1) }

// Expired counts rows removed by a sweep. Zero is not recorded.
func (m *OTelMetrics) Expired(namespace string, n int) {
	if n <= 0 {
		return
	}
	add(m.expired, namespace, n)
}

// NetworkFailure counts a failed retrieval.
func (m *OTelMetrics) NetworkFailure(namespace string) { add(m.failures, namespace, 1) }
