package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestExportMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	metrics, err := NewExportMetrics(provider.Meter(MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.Started(ctx, "Events")
	metrics.Started(ctx, "Hotlines")
	metrics.Finished(ctx, "Events", "date_range", "succeeded", time.Second, 512)

	data := collect(t, reader)

	total, ok := data["report_exports_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, total.DataPoints, 1)
	assert.Equal(t, int64(1), total.DataPoints[0].Value)

	active, ok := data["report_active_exports"].(metricdata.Sum[int64])
	require.True(t, ok)
	var inFlight int64
	for _, dp := range active.DataPoints {
		inFlight += dp.Value
	}
	assert.Equal(t, int64(1), inFlight)

	bytes, ok := data["report_artifact_bytes"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(512), bytes.DataPoints[0].Value)
}

func TestExportMetrics_NilSafe(t *testing.T) {
	var metrics *ExportMetrics
	assert.NotPanics(t, func() {
		metrics.Started(context.Background(), "Users")
		metrics.Finished(context.Background(), "Users", "all_records", "failed", time.Second, 0)
	})
}
