package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the filesystem locations the service writes to
type Paths struct {
	ReportsDir string
	LogsDir    string
}

// ResolvePaths resolves the configured directories to absolute paths.
// Relative paths are taken relative to the working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	reportsDir, err := filepath.Abs(c.Reports.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reports dir: %w", err)
	}

	logsDir, err := filepath.Abs(filepath.Dir(c.Logging.FilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}

	return &Paths{
		ReportsDir: reportsDir,
		LogsDir:    logsDir,
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Path resolution",
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
