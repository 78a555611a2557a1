package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "lakbaycli/internal/errors"
	"lakbaycli/internal/render"
	"lakbaycli/internal/report"
	"lakbaycli/pkg/contracts/domain"
)

// MonthlyGenerator builds the monthly dashboard report from a snapshot the
// caller already fetched
type MonthlyGenerator struct {
	renderer render.Renderer
	settings Settings
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewMonthlyGenerator creates a monthly generator
func NewMonthlyGenerator(renderer render.Renderer, settings Settings) *MonthlyGenerator {
	settings = settings.withDefaults()
	return &MonthlyGenerator{
		renderer: renderer,
		settings: settings,
		logger:   settings.Logger.With(slog.String("component", "exporter"), slog.String("record_type", string(domain.RecordTypeMonthly))),
		tracer:   otel.Tracer(tracerName),
	}
}

// MonthSummary is the current-month slice of a dashboard snapshot
type MonthSummary struct {
	MonthStart time.Time
	Users      []domain.User
	Posts      []domain.Post
	Events     []domain.Event
}

// SummarizeMonth keeps users and posts created since the first day of now's
// month, and events starting between that day and now.
func SummarizeMonth(snapshot domain.DashboardSnapshot, now time.Time) MonthSummary {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	summary := MonthSummary{MonthStart: monthStart}

	for _, u := range snapshot.RecentUsers {
		if !u.CreatedAt.Before(monthStart) {
			summary.Users = append(summary.Users, u)
		}
	}
	for _, p := range snapshot.RecentPosts {
		if !p.CreatedAt.Before(monthStart) {
			summary.Posts = append(summary.Posts, p)
		}
	}
	for _, e := range snapshot.UpcomingEvents {
		if !e.StartDate.Before(monthStart) && !e.StartDate.After(now) {
			summary.Events = append(summary.Events, e)
		}
	}
	return summary
}

// Generate renders the current month's summary and hands it to dst
func (g *MonthlyGenerator) Generate(ctx context.Context, dst Saver, snapshot domain.DashboardSnapshot) (artifact *domain.ExportArtifact, err error) {
	rt := string(domain.RecordTypeMonthly)
	ctx, span := g.tracer.Start(ctx, "export."+rt, trace.WithAttributes(attribute.String("record_type", rt)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, apperrors.NoticeOf(err))
		}
		span.End()
	}()

	now := g.settings.now()
	summary := SummarizeMonth(snapshot, now)

	doc := report.MonthlyReport(report.MonthlyInput{
		AppName:     g.settings.AppName,
		Title:       "Monthly Report",
		Month:       summary.MonthStart,
		NewUsers:    len(summary.Users),
		NewPosts:    len(summary.Posts),
		Events:      len(summary.Events),
		Gender:      snapshot.Gender,
		AgeGroups:   snapshot.AgeGroups,
		GeneratedAt: now,
		Location:    g.settings.Location,
	})

	data, err := g.renderer.Render(doc)
	if err != nil {
		g.logger.ErrorContext(ctx, "serialization failed", slog.String("error", err.Error()))
		return nil, apperrors.NewSerializationError(rt, err)
	}

	artifact = &domain.ExportArtifact{
		ID:          exportIDOrNew(ctx),
		RecordType:  domain.RecordTypeMonthly,
		Scope:       domain.ReportScope{Kind: domain.ScopeCurrentPage},
		Filename:    MonthlyFilename(g.settings.FilenamePrefix, summary.MonthStart, g.renderer.Extension()),
		ContentType: g.renderer.ContentType(),
		Data:        data,
		RecordCount: len(summary.Users) + len(summary.Posts) + len(summary.Events),
		GeneratedAt: now,
	}

	if err := dst.Save(ctx, artifact); err != nil {
		g.logger.ErrorContext(ctx, "saving artifact failed", slog.String("filename", artifact.Filename), slog.String("error", err.Error()))
		return nil, apperrors.NewSerializationError(rt, fmt.Errorf("save %s: %w", artifact.Filename, err))
	}

	g.logger.InfoContext(ctx, "monthly report exported",
		slog.String("export_id", artifact.ID),
		slog.String("filename", artifact.Filename),
		slog.Int("new_users", len(summary.Users)),
		slog.Int("new_posts", len(summary.Posts)),
		slog.Int("events", len(summary.Events)),
	)
	return artifact, nil
}
