package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lakbaycli/internal/apiclient"
	apperrors "lakbaycli/internal/errors"
	"lakbaycli/internal/render"
	"lakbaycli/internal/report"
	"lakbaycli/pkg/contracts/domain"
)

const tracerName = "lakbaycli/exporter"

// FetchFunc loads records for a query
type FetchFunc[T any] func(ctx context.Context, q apiclient.Query) ([]T, error)

// Definition describes one record type to a Generator
type Definition[T any] struct {
	RecordType domain.RecordType
	Title      string
	Fetch      FetchFunc[T]
	Aggregate  func([]T) domain.AggregateCounts
	Template   report.Template[T]
	// Categories lists the accepted category filter values
	Categories []string
	// CategoryQuery turns a category filter value into a list query
	CategoryQuery func(category string) apiclient.Query
}

// Generator runs the export pipeline for one record type
type Generator[T any] struct {
	def      Definition[T]
	renderer render.Renderer
	settings Settings
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewGenerator creates a generator for def that serializes with renderer
func NewGenerator[T any](def Definition[T], renderer render.Renderer, settings Settings) *Generator[T] {
	settings = settings.withDefaults()
	return &Generator[T]{
		def:      def,
		renderer: renderer,
		settings: settings,
		logger:   settings.Logger.With(slog.String("component", "exporter"), slog.String("record_type", string(def.RecordType))),
		tracer:   otel.Tracer(tracerName),
	}
}

// RecordType is the record type this generator exports
func (g *Generator[T]) RecordType() domain.RecordType {
	return g.def.RecordType
}

// GenerateCurrent exports records the caller already holds. No fetch is
// made and counts are recomputed from records.
func (g *Generator[T]) GenerateCurrent(ctx context.Context, dst Saver, records []T) (*domain.ExportArtifact, error) {
	scope := domain.ReportScope{Kind: domain.ScopeCurrentPage}
	return g.run(ctx, dst, scope, func(context.Context) ([]T, error) {
		return records, nil
	})
}

// GenerateAll exports every record the API returns for a single high-limit
// query. An empty result is an error.
func (g *Generator[T]) GenerateAll(ctx context.Context, dst Saver) (*domain.ExportArtifact, error) {
	scope := domain.ReportScope{Kind: domain.ScopeAllRecords}
	query := apiclient.Query{Limit: g.settings.AllRecordsLimit}
	return g.run(ctx, dst, scope, g.fetcher(query))
}

// GenerateFiltered exports a date range or a category. params are validated
// before any fetch.
func (g *Generator[T]) GenerateFiltered(ctx context.Context, dst Saver, params ScopeParams) (*domain.ExportArtifact, error) {
	categoryQuery := g.def.CategoryQuery
	if categoryQuery == nil {
		categoryQuery = func(c string) apiclient.Query { return apiclient.Query{Category: c} }
	}

	scope, query, err := resolveScope(g.def.RecordType, params, g.def.Categories, categoryQuery, g.settings)
	if err != nil {
		g.logger.WarnContext(ctx, "export rejected", slog.String("error", err.Error()))
		return nil, err
	}
	if scope.Kind == domain.ScopeAllRecords {
		return g.GenerateAll(ctx, dst)
	}
	return g.run(ctx, dst, scope, g.fetcher(query))
}

func (g *Generator[T]) fetcher(q apiclient.Query) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		return g.def.Fetch(ctx, q)
	}
}

// run is the fixed pipeline: load, aggregate, template, serialize, name, save
func (g *Generator[T]) run(ctx context.Context, dst Saver, scope domain.ReportScope, load func(context.Context) ([]T, error)) (artifact *domain.ExportArtifact, err error) {
	rt := string(g.def.RecordType)
	ctx, span := g.tracer.Start(ctx, "export."+rt, trace.WithAttributes(
		attribute.String("record_type", rt),
		attribute.String("scope", string(scope.Kind)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperrors.NoticeOf(err))
		}
		span.End()
	}()

	var records []T
	err = g.stage(ctx, "fetch", func(ctx context.Context) error {
		var fetchErr error
		records, fetchErr = load(ctx)
		return fetchErr
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "fetch failed", slog.String("scope", string(scope.Kind)), slog.String("error", err.Error()))
		return nil, apperrors.NewFetchError(rt, err)
	}
	if len(records) == 0 && scope.Kind != domain.ScopeCurrentPage {
		g.logger.InfoContext(ctx, "export aborted, no records", slog.String("scope", string(scope.Kind)))
		return nil, apperrors.NewEmptyResultError(rt, emptyNotice(g.def.RecordType, scope))
	}

	counts := g.def.Aggregate(records)
	generated := g.settings.now()

	doc := g.def.Template(report.TemplateInput[T]{
		AppName:           g.settings.AppName,
		Title:             g.def.Title,
		Records:           records,
		Counts:            counts,
		ScopeLabel:        scope.Label(),
		GeneratedAt:       generated,
		Location:          g.settings.Location,
		DescriptionLength: g.settings.DescriptionLength,
	})

	var data []byte
	err = g.stage(ctx, "serialize", func(context.Context) error {
		var renderErr error
		data, renderErr = g.renderer.Render(doc)
		return renderErr
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "serialization failed", slog.String("error", err.Error()))
		return nil, apperrors.NewSerializationError(rt, err)
	}

	artifact = &domain.ExportArtifact{
		ID:          exportIDOrNew(ctx),
		RecordType:  g.def.RecordType,
		Scope:       scope,
		Filename:    Filename(g.settings.FilenamePrefix, g.def.RecordType, scope, generated, g.renderer.Extension()),
		ContentType: g.renderer.ContentType(),
		Data:        data,
		RecordCount: len(records),
		GeneratedAt: generated,
	}

	if err = g.stage(ctx, "save", func(ctx context.Context) error { return dst.Save(ctx, artifact) }); err != nil {
		g.logger.ErrorContext(ctx, "saving artifact failed", slog.String("filename", artifact.Filename), slog.String("error", err.Error()))
		return nil, apperrors.NewSerializationError(rt, fmt.Errorf("save %s: %w", artifact.Filename, err))
	}

	g.logger.InfoContext(ctx, "report exported",
		slog.String("export_id", artifact.ID),
		slog.String("scope", string(scope.Kind)),
		slog.String("filename", artifact.Filename),
		slog.Int("records", artifact.RecordCount),
		slog.Int("bytes", len(data)),
	)
	return artifact, nil
}

// stage runs fn inside a child span
func (g *Generator[T]) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := g.tracer.Start(ctx, "export."+name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func emptyNotice(recordType domain.RecordType, scope domain.ReportScope) string {
	noun := lowerNoun(recordType)
	switch scope.Kind {
	case domain.ScopeDateRange:
		return fmt.Sprintf("No %s found in the selected date range", noun)
	case domain.ScopeCategoryFilter:
		return fmt.Sprintf("No %s found for category %s", noun, scope.Category)
	default:
		return fmt.Sprintf("No %s available to export", noun)
	}
}

func lowerNoun(recordType domain.RecordType) string {
	switch recordType {
	case domain.RecordTypeUsers:
		return "users"
	case domain.RecordTypeEvents:
		return "events"
	case domain.RecordTypeHotlines:
		return "hotlines"
	default:
		return "records"
	}
}

type exportIDKey struct{}

// WithExportID attaches the id the artifact will carry
func WithExportID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, exportIDKey{}, id)
}

// ExportIDFromContext returns the id set by WithExportID, or ""
func ExportIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(exportIDKey{}).(string)
	return id
}

func exportIDOrNew(ctx context.Context) string {
	if id := ExportIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
