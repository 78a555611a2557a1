package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"lakbaycli/internal/config"
	"lakbaycli/pkg/contracts/domain"
)

type fakeHub int

func (f fakeHub) ClientCount() int    { return int(f) }
func (f fakeHub) MessagesSent() int64 { return int64(f) * 10 }

type fakeStatuses []domain.ExportStatus

func (f fakeStatuses) Statuses() []domain.ExportStatus { return f }

func TestHealthService_ReadinessCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		hs := NewHealthService("1.2.0", "", &config.Paths{ReportsDir: t.TempDir()},
			fakeStatuses{{State: domain.ExportStateInProgress}, {State: domain.ExportStateIdle}}, fakeHub(2), nil)

		status := hs.ReadinessCheck(context.Background())

		assert.Equal(t, "ready", status.Status)
		exports := status.Services["exports"].(map[string]interface{})
		assert.Equal(t, 1, exports["in_progress"])
		ws := status.Services["websocket"].(map[string]interface{})
		assert.Equal(t, 2, ws["clients"])
		assert.Equal(t, int64(20), ws["messages_sent"])
	})

	t.Run("reports dir missing", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing", "reports")
		hs := NewHealthService("1.2.0", "", &config.Paths{ReportsDir: missing}, nil, nil, nil)

		status := hs.ReadinessCheck(context.Background())

		assert.Equal(t, "not_ready", status.Status)
		dir := status.Services["reports_dir"].(ServiceHealth)
		assert.Equal(t, "error", dir.Status)
		assert.Contains(t, dir.Message, "missing")
		assert.Equal(t, "not_configured", status.Services["websocket"].(ServiceHealth).Status)
	})
}

func TestHealthService_LivenessAndVersion(t *testing.T) {
	hs := NewHealthService("1.2.0", "2024-06-15T00:00:00Z", nil, nil, nil, nil)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := hs.Version()
	assert.Equal(t, "1.2.0", version["version"])
	assert.Equal(t, "2024-06-15T00:00:00Z", version["build_time"])

	assert.Equal(t, "ok", hs.HealthCheck(context.Background()).Status)
}
