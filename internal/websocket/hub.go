package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"lakbaycli/internal/infrastructure"
	"lakbaycli/pkg/contracts/domain"
)

// Message types sent to clients
const (
	TypeConnection     = "connection"
	TypeExportStatus   = "export:status"
	TypeExportSnapshot = "export:snapshot"
)

// broadcastQueueSize bounds pending broadcasts. Messages beyond it are
// dropped rather than blocking the exporting goroutine.
const broadcastQueueSize = 64

// Message is the envelope of every server to client frame
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// SnapshotFunc returns the current status of every trigger. It is sent to
// each client right after it connects.
type SnapshotFunc func() []domain.ExportStatus

// HubOption configures a Hub
type HubOption func(*Hub)

// WithSnapshot sets the function used for the on-connect snapshot
func WithSnapshot(fn SnapshotFunc) HubOption {
	return func(h *Hub) { h.snapshot = fn }
}

// WithMetrics sets the hub instruments
func WithMetrics(m *HubMetrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

// Hub maintains the set of connected admin clients and broadcasts export
// status transitions to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu           sync.RWMutex
	logger       *slog.Logger
	snapshot     SnapshotFunc
	metrics      *HubMetrics
	messagesSent int64

	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start runs the hub loop in its own goroutine
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.context()
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))
			h.metrics.connected(ctx)

			h.sendTo(client, Message{
				Type: TypeConnection,
				Data: map[string]interface{}{
					"status":    "connected",
					"message":   "Connected to report status stream",
					"client_id": client.id,
				},
				TraceID: client.traceID,
			})
			if h.snapshot != nil {
				h.sendTo(client, Message{Type: TypeExportSnapshot, Data: h.snapshot(), TraceID: client.traceID})
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				count := len(h.clients)
				h.mu.Unlock()

				ctx := client.context()
				h.logger.InfoContext(ctx, "Client unregistered",
					slog.Int("total_clients", count),
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
				h.metrics.disconnected(ctx)
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) fanOut(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	failCount := 0
	for client := range h.clients {
		select {
		case client.send <- message:
			h.messagesSent++
		default:
			failCount++
			close(client.send)
			delete(h.clients, client)
			h.logger.WarnContext(client.context(), "Client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}

	h.metrics.broadcast(context.Background(), len(h.clients), failCount)
	if failCount > 0 {
		h.logger.Warn("Some clients failed to receive broadcast",
			slog.Int("success_count", len(h.clients)),
			slog.Int("fail_count", failCount))
	}
}

// sendTo queues msg for a single client; only called from the hub loop
func (h *Hub) sendTo(client *Client, msg Message) {
	data, err := h.encode(msg)
	if err != nil {
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.WarnContext(client.context(), "Failed to send message - client buffer full",
			slog.String("client_id", client.id),
			slog.String("message_type", msg.Type))
	}
}

func (h *Hub) encode(msg Message) ([]byte, error) {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().Format(time.RFC3339)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", msg.Type))
		return nil, err
	}
	return data, nil
}

// Broadcast queues a message for every connected client. It never blocks:
// when the queue is full the message is dropped and logged.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	payload, err := h.encode(Message{Type: messageType, Data: data})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		h.metrics.dropped(context.Background())
		h.logger.Warn("Broadcast queue full, dropping message",
			slog.String("message_type", messageType))
	}
}

// ExportStatusChanged forwards a trigger transition to every client
func (h *Hub) ExportStatusChanged(status domain.ExportStatus) {
	h.Broadcast(TypeExportStatus, status)
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MessagesSent returns how many messages were queued to clients
func (h *Hub) MessagesSent() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.messagesSent
}

// Stop stops the hub loop and closes every client
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
