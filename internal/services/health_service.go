package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"lakbaycli/internal/config"
	"lakbaycli/pkg/contracts"
	"lakbaycli/pkg/contracts/domain"
)

// ClientCounter reports status stream clients and delivered messages
type ClientCounter interface {
	ClientCount() int
	MessagesSent() int64
}

// StatusProvider reports trigger states
type StatusProvider interface {
	Statuses() []domain.ExportStatus
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	paths     *config.Paths
	reports   StatusProvider
	hub       ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. paths, reports and hub may be
// nil; their checks then report "not_configured".
func NewHealthService(version, buildTime string, paths *config.Paths, reports StatusProvider, hub ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		paths:     paths,
		reports:   reports,
		hub:       hub,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return status
}

// ReadinessCheck returns "ready" when every dependency check passes
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"reports_dir": hs.checkReportsDir(),
			"exports":     hs.checkExports(),
			"websocket":   hs.checkWebSocket(),
		},
	}

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status == "error" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "ReadinessCheck: dependency not ready",
				slog.String("service", name),
				slog.String("message", sh.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":     hs.version,
		"api_version": contracts.APIVersion,
		"git_commit":  contracts.GitCommit,
		"go_version":  runtime.Version(),
		"os":          runtime.GOOS,
		"arch":        runtime.GOARCH,
		"uptime":      time.Since(hs.startTime).Seconds(),
		"start_time":  hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	return result
}

func (hs *HealthService) checkReportsDir() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: "not_configured"}
	}

	if !config.FileExists(hs.paths.ReportsDir) {
		return ServiceHealth{Status: "error", Message: "reports directory missing: " + hs.paths.ReportsDir}
	}

	probe := filepath.Join(hs.paths.ReportsDir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return ServiceHealth{Status: "error", Message: "reports directory not writable: " + hs.paths.ReportsDir}
	}
	os.Remove(probe)
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkExports() interface{} {
	if hs.reports == nil {
		return ServiceHealth{Status: "not_configured"}
	}

	inProgress := 0
	for _, s := range hs.reports.Statuses() {
		if s.State == domain.ExportStateInProgress {
			inProgress++
		}
	}
	return map[string]interface{}{
		"status":      "ready",
		"in_progress": inProgress,
	}
}

func (hs *HealthService) checkWebSocket() interface{} {
	if hs.hub == nil {
		return ServiceHealth{Status: "not_configured"}
	}
	return map[string]interface{}{
		"status":        "ready",
		"clients":       hs.hub.ClientCount(),
		"messages_sent": hs.hub.MessagesSent(),
	}
}
