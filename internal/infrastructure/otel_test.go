package infrastructure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakbaycli/internal/config"
)

func TestInitializeOTel(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.TelemetryConfig
		wantErr    bool
		wantTracer bool
		wantMeter  bool
	}{
		{name: "everything disabled", cfg: config.TelemetryConfig{TraceExporter: "none", MetricExporter: "none"}},
		{name: "stdout traces", cfg: config.TelemetryConfig{TraceExporter: "stdout", MetricExporter: "none", SampleRatio: 1}, wantTracer: true},
		{name: "unknown trace exporter", cfg: config.TelemetryConfig{TraceExporter: "jaeger"}, wantErr: true},
		{name: "unknown metric exporter", cfg: config.TelemetryConfig{MetricExporter: "statsd"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.cfg, NewJSONLogger(io.Discard, nil))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer providers.Shutdown(context.Background())

			assert.Equal(t, tt.wantTracer, providers.Tracer != nil)
			assert.Equal(t, tt.wantMeter, providers.Meter != nil)
			assert.Nil(t, providers.PrometheusHTTP)
		})
	}
}

func TestInitializeOTel_PrometheusExportsReportMetrics(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
	}, NewJSONLogger(io.Discard, nil))
	require.NoError(t, err)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := NewExportMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.Started(ctx, "Users")
	metrics.Finished(ctx, "Users", "all_records", "succeeded", 250*time.Millisecond, 2048)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "report_exports_total")
	assert.Contains(t, body, `outcome="succeeded"`)
	assert.Contains(t, body, "report_export_duration_seconds")

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}
