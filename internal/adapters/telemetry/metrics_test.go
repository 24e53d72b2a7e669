package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.trai.ch/mirror/internal/adapters/telemetry"
)

// collect returns counter totals keyed by metric name and namespace label.
func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]map[string]int64)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", m.Name)

			byNamespace := make(map[string]int64)
			for _, dp := range sum.DataPoints {
				ns, _ := dp.Attributes.Value(attribute.Key(telemetry.NamespaceAttr))
				byNamespace[ns.AsString()] += dp.Value
			}
			out[m.Name] = byNamespace
		}
	}
	return out
}

func TestOTelMetrics_Counts(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})

	m, err := telemetry.NewOTelMetrics(mp)
	require.NoError(t, err)

	m.Hit("roles")
	m.Hit("roles")
	m.Hit("comments")
	m.Miss("roles")
	m.Revalidation("comments")
	m.StaleWriteIgnored("repo-files")
	m.Expired("repo-files", 4)
	m.Expired("repo-files", 0)
	m.NetworkFailure("user-profile")

	got := collect(t, reader)
	assert.Equal(t, map[string]int64{"roles": 2, "comments": 1}, got[telemetry.MetricHits])
	assert.Equal(t, map[string]int64{"roles": 1}, got[telemetry.MetricMisses])
	assert.Equal(t, map[string]int64{"comments": 1}, got[telemetry.MetricRevalidations])
	assert.Equal(t, map[string]int64{"repo-files": 1}, got[telemetry.MetricStaleWriteIgnored])
	assert.Equal(t, map[string]int64{"repo-files": 4}, got[telemetry.MetricExpired])
	assert.Equal(t, map[string]int64{"user-profile": 1}, got[telemetry.MetricNetworkFailures])
}

func TestNoOpMetrics(_ *testing.T) {
	var m telemetry.NoOpMetrics
	m.Hit("roles")
	m.Miss("roles")
	m.Revalidation("roles")
	m.StaleWriteIgnored("roles")
	m.Expired("roles", 3)
	m.NetworkFailure("roles")
}
