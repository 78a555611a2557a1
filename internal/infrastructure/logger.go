package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"lakbaycli/internal/config"
)

type contextKey string

// TraceIDContextKey carries the request or export trace id
const TraceIDContextKey contextKey = "trace_id"

// process-wide logger, set once by InitializeLogger
var logging struct {
	sync.Mutex
	logger *slog.Logger
	file   *os.File
}

// InitializeLogger builds the process logger from cfg and installs it as the
// slog default. Later calls return the logger built by the first one.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	logging.Lock()
	defer logging.Unlock()

	if logging.logger != nil {
		return logging.logger, nil
	}

	w, file, err := logOutput(cfg)
	if err != nil {
		return nil, err
	}

	logging.file = file
	logging.logger = NewJSONLogger(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLogLevel(cfg.Level),
	})
	slog.SetDefault(logging.logger)
	return logging.logger, nil
}

// GetLogger returns the process logger, or slog's default before
// InitializeLogger has run.
func GetLogger() *slog.Logger {
	logging.Lock()
	defer logging.Unlock()

	if logging.logger == nil {
		return slog.Default()
	}
	return logging.logger
}

// logOutput picks the writer for cfg.Output. The returned file, when not nil,
// must be closed through CloseLogFile.
func logOutput(cfg config.LoggingConfig) (io.Writer, *os.File, error) {
	output := strings.ToLower(cfg.Output)
	if output != "file" && output != "both" {
		return os.Stdout, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	if output == "both" {
		return io.MultiWriter(os.Stdout, file), file, nil
	}
	return file, file, nil
}

// NewJSONLogger builds a JSON logger writing to w. Records logged with a
// context carrying a trace id get a trace_id attribute.
func NewJSONLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	return slog.New(contextHandler{slog.NewJSONHandler(w, opts)})
}

type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetTraceID(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// parseLogLevel maps a config level name to a slog level, defaulting to info
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the trace id stored by WithTraceID, or ""
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDContextKey).(string)
	return id
}

// CloseLogFile closes the log file opened by InitializeLogger, if any
func CloseLogFile() error {
	logging.Lock()
	defer logging.Unlock()

	if logging.file == nil {
		return nil
	}
	err := logging.file.Close()
	logging.file = nil
	return err
}

// ResetLoggerForTesting forgets the process logger so tests can initialize
// it again.
func ResetLoggerForTesting() {
	CloseLogFile()

	logging.Lock()
	logging.logger = nil
	logging.Unlock()
}
