package services

import (
	"context"
	"log/slog"
	"strings"

	"lakbaycli/internal/config"
	apperrors "lakbaycli/internal/errors"
	"lakbaycli/internal/exporter"
	"lakbaycli/internal/infrastructure"
	"lakbaycli/internal/render"
	"lakbaycli/pkg/contracts/domain"
)

// LakbayAPI is what the report service reads from the Lakbay API
type LakbayAPI interface {
	exporter.API
	Dashboard(ctx context.Context) (*domain.DashboardSnapshot, error)
}

// ClientFactory returns an API client that forwards the caller's bearer
// token. An empty token means the client's configured token.
type ClientFactory func(token string) LakbayAPI

// ExportMode is which trigger of a list page was pressed
type ExportMode string

const (
	ModeCurrent  ExportMode = "current"
	ModeAll      ExportMode = "all"
	ModeFiltered ExportMode = "filtered"
)

// ParseExportMode validates a mode name
func ParseExportMode(s string) (ExportMode, bool) {
	switch m := ExportMode(strings.ToLower(s)); m {
	case ModeCurrent, ModeAll, ModeFiltered:
		return m, true
	}
	return "", false
}

// ExportRequest is one press of an export trigger
type ExportRequest struct {
	RecordType domain.RecordType
	Mode       ExportMode
	Format     string
	Token      string
	Params     exporter.ScopeParams

	// The on-screen records of a current page export; only the slice
	// matching RecordType is read
	Users    []domain.User
	Events   []domain.Event
	Hotlines []domain.Hotline
}

// MonthlyRequest asks for the monthly dashboard report. A nil Snapshot is
// fetched from the API.
type MonthlyRequest struct {
	Format   string
	Token    string
	Snapshot *domain.DashboardSnapshot
}

// ReportServiceOptions configures a ReportService
type ReportServiceOptions struct {
	Settings      exporter.Settings
	Render        render.Options
	DefaultFormat string
	Metrics       *infrastructure.ExportMetrics
	Listeners     []exporter.StatusListener
	Logger        *slog.Logger
}

// ReportService owns one trigger per record type and runs exports through
// them
type ReportService struct {
	clients       ClientFactory
	settings      exporter.Settings
	renderOpts    render.Options
	defaultFormat string
	triggers      map[domain.RecordType]*exporter.Trigger
	logger        *slog.Logger
}

// RecordTypes lists the record types in status order
var RecordTypes = []domain.RecordType{
	domain.RecordTypeUsers,
	domain.RecordTypeEvents,
	domain.RecordTypeHotlines,
	domain.RecordTypeMonthly,
}

// NewReportService creates a report service with idle triggers
func NewReportService(clients ClientFactory, opts ReportServiceOptions) *ReportService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Settings.Logger == nil {
		opts.Settings.Logger = logger
	}
	defaultFormat := opts.DefaultFormat
	if defaultFormat == "" {
		defaultFormat = config.FormatPDF
	}

	s := &ReportService{
		clients:       clients,
		settings:      opts.Settings,
		renderOpts:    opts.Render,
		defaultFormat: defaultFormat,
		triggers:      make(map[domain.RecordType]*exporter.Trigger, len(RecordTypes)),
		logger:        logger.With(slog.String("service", "report")),
	}
	for _, rt := range RecordTypes {
		s.triggers[rt] = exporter.NewTrigger(rt, exporter.TriggerOptions{
			Logger:    logger,
			Metrics:   opts.Metrics,
			Listeners: opts.Listeners,
			Now:       opts.Settings.Now,
		})
	}
	return s
}

// Export runs one export of a list page. The artifact is handed to dst
// exactly once when the export succeeds.
func (s *ReportService) Export(ctx context.Context, req ExportRequest, dst exporter.Saver) (*domain.ExportArtifact, error) {
	trigger, ok := s.triggers[req.RecordType]
	if !ok || req.RecordType == domain.RecordTypeMonthly {
		return nil, apperrors.NewValidationError(string(req.RecordType), "type", "Unknown report type")
	}
	if _, ok := ParseExportMode(string(req.Mode)); !ok {
		return nil, apperrors.NewValidationError(string(req.RecordType), "mode", "Unknown export mode")
	}
	renderer, err := s.renderer(req.RecordType, req.Format)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "export requested",
		slog.String("record_type", string(req.RecordType)),
		slog.String("mode", string(req.Mode)),
		slog.String("format", renderer.Extension()))

	api := s.clients(req.Token)
	return trigger.Run(ctx, scopeKindOf(req.Mode, req.Params), func(ctx context.Context) (*domain.ExportArtifact, error) {
		switch req.RecordType {
		case domain.RecordTypeUsers:
			return generate(ctx, exporter.NewUserGenerator(api, renderer, s.settings), req.Mode, dst, req.Params, req.Users)
		case domain.RecordTypeEvents:
			return generate(ctx, exporter.NewEventGenerator(api, renderer, s.settings), req.Mode, dst, req.Params, req.Events)
		default:
			return generate(ctx, exporter.NewHotlineGenerator(api, renderer, s.settings), req.Mode, dst, req.Params, req.Hotlines)
		}
	})
}

// Monthly runs the monthly dashboard export
func (s *ReportService) Monthly(ctx context.Context, req MonthlyRequest, dst exporter.Saver) (*domain.ExportArtifact, error) {
	rt := domain.RecordTypeMonthly
	renderer, err := s.renderer(rt, req.Format)
	if err != nil {
		return nil, err
	}

	return s.triggers[rt].Run(ctx, domain.ScopeCurrentPage, func(ctx context.Context) (*domain.ExportArtifact, error) {
		snapshot := req.Snapshot
		if snapshot == nil {
			fetched, err := s.clients(req.Token).Dashboard(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "dashboard fetch failed", slog.String("error", err.Error()))
				return nil, apperrors.NewFetchError(string(rt), err)
			}
			snapshot = fetched
		}
		return exporter.NewMonthlyGenerator(renderer, s.settings).Generate(ctx, dst, *snapshot)
	})
}

// Statuses returns every trigger's status in RecordTypes order
func (s *ReportService) Statuses() []domain.ExportStatus {
	statuses := make([]domain.ExportStatus, 0, len(RecordTypes))
	for _, rt := range RecordTypes {
		statuses = append(statuses, s.triggers[rt].Status())
	}
	return statuses
}

// Status returns one trigger's status
func (s *ReportService) Status(rt domain.RecordType) (domain.ExportStatus, bool) {
	trigger, ok := s.triggers[rt]
	if !ok {
		return domain.ExportStatus{}, false
	}
	return trigger.Status(), true
}

// AddListener subscribes l to every trigger. It must be called before the
// first export.
func (s *ReportService) AddListener(l exporter.StatusListener) {
	for _, rt := range RecordTypes {
		s.triggers[rt].AddListener(l)
	}
}

func (s *ReportService) renderer(rt domain.RecordType, format string) (render.Renderer, error) {
	if strings.TrimSpace(format) == "" {
		format = s.defaultFormat
	}
	renderer, err := render.ForFormat(format, s.renderOpts)
	if err != nil {
		return nil, apperrors.NewValidationError(string(rt), "format", "Unsupported format: "+format)
	}
	return renderer, nil
}

func scopeKindOf(mode ExportMode, params exporter.ScopeParams) domain.ScopeKind {
	switch {
	case mode == ModeCurrent:
		return domain.ScopeCurrentPage
	case mode == ModeAll, params.Category == config.AllCategories:
		return domain.ScopeAllRecords
	case params.StartDate != "" || params.EndDate != "":
		return domain.ScopeDateRange
	default:
		return domain.ScopeCategoryFilter
	}
}

func generate[T any](ctx context.Context, gen *exporter.Generator[T], mode ExportMode, dst exporter.Saver, params exporter.ScopeParams, records []T) (*domain.ExportArtifact, error) {
	switch mode {
	case ModeCurrent:
		return gen.GenerateCurrent(ctx, dst, records)
	case ModeAll:
		return gen.GenerateAll(ctx, dst)
	default:
		return gen.GenerateFiltered(ctx, dst, params)
	}
}
