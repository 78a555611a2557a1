package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lakbaycli/internal/config"
	"lakbaycli/internal/infrastructure"
	"lakbaycli/pkg/contracts/domain"
)

// Saver receives the finished artifact. It is called at most once per
// export and only after serialization succeeded.
type Saver interface {
	Save(ctx context.Context, artifact *domain.ExportArtifact) error
}

// SaverFunc adapts a function to Saver
type SaverFunc func(ctx context.Context, artifact *domain.ExportArtifact) error

// Save implements Saver
func (f SaverFunc) Save(ctx context.Context, artifact *domain.ExportArtifact) error {
	return f(ctx, artifact)
}

// FileSaver writes artifacts into the reports directory
type FileSaver struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewFileSaver creates a saver rooted at paths.ReportsDir
func NewFileSaver(paths *config.Paths, logger *slog.Logger) *FileSaver {
	return &FileSaver{paths: paths, logger: infrastructure.WithComponent(logger, "file_saver")}
}

// Path returns where an artifact named filename is written
func (s *FileSaver) Path(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return s.paths.GetReportPath(filepath.Base(filename))
}

// Save writes the artifact through a temporary file so a partial write is
// never left under the final name.
func (s *FileSaver) Save(ctx context.Context, artifact *domain.ExportArtifact) error {
	fullPath := s.Path(artifact.Filename)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(artifact.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}

	s.logger.InfoContext(ctx, "report written",
		slog.String("export_id", artifact.ID),
		slog.String("full_path", fullPath),
		slog.Int("bytes", len(artifact.Data)))
	return nil
}
