package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// CapturedRecord is one log call seen by a LogCapture
type CapturedRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogCapture is a slog.Handler that keeps every record in memory. Loggers
// derived with With share the capture of their parent.
type LogCapture struct {
	mu      *sync.Mutex
	records *[]CapturedRecord
	bound   []slog.Attr
	t       *testing.T
}

// NewTestLogger returns a logger writing into a fresh LogCapture. Records are
// echoed through t.Logf so they show up with -v.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogCapture) {
	c := &LogCapture{mu: &sync.Mutex{}, records: &[]CapturedRecord{}, t: t}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(c.bound)+r.NumAttrs())
	for _, a := range c.bound {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	c.mu.Lock()
	*c.records = append(*c.records, CapturedRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	c.mu.Unlock()

	if c.t != nil {
		c.t.Logf("%s %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (c *LogCapture) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := append(append([]slog.Attr{}, c.bound...), attrs...)
	return &LogCapture{mu: c.mu, records: c.records, bound: bound, t: c.t}
}

// WithGroup flattens groups; the exporters never log grouped attributes.
func (c *LogCapture) WithGroup(string) slog.Handler { return c }

// Records returns a snapshot of everything logged so far
func (c *LogCapture) Records() []CapturedRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CapturedRecord(nil), *c.records...)
}

func (c *LogCapture) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(*c.records)
}

// ContainsMessage reports whether a record message contains substr
func (c *LogCapture) ContainsMessage(substr string) bool {
	_, ok := c.find(func(r CapturedRecord) bool { return strings.Contains(r.Message, substr) })
	return ok
}

// ContainsAttr reports whether a record carries key with exactly value
func (c *LogCapture) ContainsAttr(key string, value any) bool {
	_, ok := c.find(func(r CapturedRecord) bool {
		v, present := r.Attrs[key]
		return present && v == value
	})
	return ok
}

func (c *LogCapture) find(match func(CapturedRecord) bool) (CapturedRecord, bool) {
	for _, r := range c.Records() {
		if match(r) {
			return r, true
		}
	}
	return CapturedRecord{}, false
}
