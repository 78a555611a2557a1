package websocket

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HubMetrics are the status stream instruments. A nil *HubMetrics records
// nothing.
type HubMetrics struct {
	clients  metric.Int64UpDownCounter
	messages metric.Int64Counter
	drops    metric.Int64Counter
}

// NewHubMetrics creates the hub instruments on meter
func NewHubMetrics(meter metric.Meter) (*HubMetrics, error) {
	clients, err := meter.Int64UpDownCounter(
		"websocket_clients",
		metric.WithDescription("Number of connected status stream clients"),
	)
	if err != nil {
		return nil, err
	}

	messages, err := meter.Int64Counter(
		"websocket_messages_total",
		metric.WithDescription("Status messages delivered to clients"),
	)
	if err != nil {
		return nil, err
	}

	dropped, err := meter.Int64Counter(
		"websocket_messages_dropped_total",
		metric.WithDescription("Status messages dropped because a queue was full"),
	)
	if err != nil {
		return nil, err
	}

	return &HubMetrics{clients: clients, messages: messages, drops: dropped}, nil
}

func (m *HubMetrics) connected(ctx context.Context) {
	if m == nil {
		return
	}
	m.clients.Add(ctx, 1)
}

func (m *HubMetrics) disconnected(ctx context.Context) {
	if m == nil {
		return
	}
	m.clients.Add(ctx, -1)
}

func (m *HubMetrics) broadcast(ctx context.Context, delivered, failed int) {
	if m == nil {
		return
	}
	m.messages.Add(ctx, int64(delivered))
	if failed > 0 {
		m.drops.Add(ctx, int64(failed), metric.WithAttributes(attribute.String("reason", "client_buffer_full")))
	}
}

func (m *HubMetrics) dropped(ctx context.Context) {
	if m == nil {
		return
	}
	m.drops.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "broadcast_queue_full")))
}
