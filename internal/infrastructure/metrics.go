package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ExportMetrics records report export activity
type ExportMetrics struct {
	exportsTotal   metric.Int64Counter
	exportDuration metric.Float64Histogram
	artifactBytes  metric.Int64Counter
	activeExports  metric.Int64UpDownCounter
}

// NewExportMetrics creates the export instruments on meter. A nil meter uses
// the global meter provider, which is a no-op until InitializeOTel runs.
func NewExportMetrics(meter metric.Meter) (*ExportMetrics, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(MeterName)
	}

	exportsTotal, err := meter.Int64Counter(
		"report_exports_total",
		metric.WithDescription("Total number of report exports by record type, scope and outcome"),
	)
	if err != nil {
		return nil, err
	}

	exportDuration, err := meter.Float64Histogram(
		"report_export_duration_seconds",
		metric.WithDescription("Report export duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	artifactBytes, err := meter.Int64Counter(
		"report_artifact_bytes",
		metric.WithDescription("Total bytes of report artifacts emitted"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	activeExports, err := meter.Int64UpDownCounter(
		"report_active_exports",
		metric.WithDescription("Number of exports currently in progress"),
	)
	if err != nil {
		return nil, err
	}

	return &ExportMetrics{
		exportsTotal:   exportsTotal,
		exportDuration: exportDuration,
		artifactBytes:  artifactBytes,
		activeExports:  activeExports,
	}, nil
}

// Started marks an export as in progress
func (m *ExportMetrics) Started(ctx context.Context, recordType string) {
	if m == nil {
		return
	}
	m.activeExports.Add(ctx, 1, metric.WithAttributes(attribute.String("record_type", recordType)))
}

// Finished records the end of an export
func (m *ExportMetrics) Finished(ctx context.Context, recordType, scope, outcome string, elapsed time.Duration, size int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("record_type", recordType),
		attribute.String("scope", scope),
		attribute.String("outcome", outcome),
	)
	m.activeExports.Add(ctx, -1, metric.WithAttributes(attribute.String("record_type", recordType)))
	m.exportsTotal.Add(ctx, 1, attrs)
	m.exportDuration.Record(ctx, elapsed.Seconds(), attrs)
	if size > 0 {
		m.artifactBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("record_type", recordType)))
	}
}
