package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"lakbaycli/internal/config"
	apierrors "lakbaycli/internal/errors"
	"lakbaycli/internal/exporter"
	"lakbaycli/internal/middleware"
	"lakbaycli/internal/services"
	"lakbaycli/pkg/contracts/domain"
)

// ExportIDHeader carries the id of the export that produced a download
const ExportIDHeader = middleware.ExportIDHeader

// ReportService is the part of services.ReportService the handler drives
type ReportService interface {
	Export(ctx context.Context, req services.ExportRequest, dst exporter.Saver) (*domain.ExportArtifact, error)
	Monthly(ctx context.Context, req services.MonthlyRequest, dst exporter.Saver) (*domain.ExportArtifact, error)
	Statuses() []domain.ExportStatus
}

// ReportHandler serves the export triggers of the admin list pages and the
// monthly dashboard report
type ReportHandler struct {
	service       ReportService
	validator     *middleware.Validator
	errorHandler  *apierrors.ErrorHandler
	exportTimeout time.Duration
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportService, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, exportTimeout time.Duration, logger *slog.Logger) *ReportHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = middleware.NewValidator(logger)
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	if exportTimeout <= 0 {
		exportTimeout = config.DefaultExportTimeout
	}

	return &ReportHandler{
		service:       service,
		validator:     validator,
		errorHandler:  errorHandler,
		exportTimeout: exportTimeout,
		logger:        logger.With(slog.String("handler", "reports")),
	}
}

// Routes returns the report routes, mounted under /api/v1/reports
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/status", h.GetStatuses)
	r.Post("/monthly", h.ExportMonthly)

	r.Route("/{type}", func(r chi.Router) {
		r.Use(h.RecordTypeCtx)
		r.Post("/current", h.ExportCurrent)
		r.Post("/all", h.ExportAll)
		r.Post("/filtered", h.ExportFiltered)
	})

	return r
}

// CurrentPageRequest carries the records on screen when the trigger was
// pressed. Records is decoded per record type.
type CurrentPageRequest struct {
	Records json.RawMessage `json:"records"`
	Format  string          `json:"format" validate:"omitempty,reportformat"`
}

// AllRecordsRequest selects the output format of an all records export
type AllRecordsRequest struct {
	Format string `json:"format" validate:"omitempty,reportformat"`
}

// FilteredRequest is the filter dialog of a list page. A date range and a
// category are mutually exclusive.
type FilteredRequest struct {
	StartDate string `json:"startDate" validate:"required_with=EndDate,omitempty,reportdate"`
	EndDate   string `json:"endDate" validate:"required_with=StartDate,omitempty,reportdate"`
	Category  string `json:"category" validate:"omitempty,max=64"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive"`
	Format    string `json:"format" validate:"omitempty,reportformat"`
}

type recordTypeKey struct{}

// RecordTypeCtx resolves the {type} URL parameter. The monthly report has
// its own route and is rejected here.
func (h *ReportHandler) RecordTypeCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		param := chi.URLParam(r, "type")
		rt, err := domain.ParseRecordType(param)
		if err != nil || rt == domain.RecordTypeMonthly {
			h.errorHandler.HandleError(w, r, apierrors.NewValidationError(param, "type", "Unknown report type: "+param))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), recordTypeKey{}, rt)))
	})
}

func recordTypeFrom(ctx context.Context) domain.RecordType {
	rt, _ := ctx.Value(recordTypeKey{}).(domain.RecordType)
	return rt
}

// ExportCurrent handles POST /api/v1/reports/{type}/current
func (h *ReportHandler) ExportCurrent(w http.ResponseWriter, r *http.Request) {
	var body CurrentPageRequest
	if err := h.validator.DecodeJSON(w, r, &body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req := services.ExportRequest{
		RecordType: recordTypeFrom(r.Context()),
		Mode:       services.ModeCurrent,
		Format:     body.Format,
		Token:      middleware.TokenFromContext(r.Context()),
	}
	if err := decodeRecords(&req, body.Records); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewValidationError(string(req.RecordType), "records", "Records do not match the report type"))
		return
	}

	h.export(w, r, req)
}

// ExportAll handles POST /api/v1/reports/{type}/all
func (h *ReportHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	var body AllRecordsRequest
	if err := h.validator.DecodeJSON(w, r, &body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.export(w, r, services.ExportRequest{
		RecordType: recordTypeFrom(r.Context()),
		Mode:       services.ModeAll,
		Format:     body.Format,
		Token:      middleware.TokenFromContext(r.Context()),
	})
}

// ExportFiltered handles POST /api/v1/reports/{type}/filtered
func (h *ReportHandler) ExportFiltered(w http.ResponseWriter, r *http.Request) {
	var body FilteredRequest
	if err := h.validator.DecodeJSON(w, r, &body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.export(w, r, services.ExportRequest{
		RecordType: recordTypeFrom(r.Context()),
		Mode:       services.ModeFiltered,
		Format:     body.Format,
		Token:      middleware.TokenFromContext(r.Context()),
		Params: exporter.ScopeParams{
			StartDate: body.StartDate,
			EndDate:   body.EndDate,
			Category:  body.Category,
			Status:    body.Status,
		},
	})
}

// ExportMonthly handles POST /api/v1/reports/monthly. The body is the
// dashboard snapshot on screen; an empty body fetches it from the API.
func (h *ReportHandler) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.exportTimeout)
	defer cancel()

	req := services.MonthlyRequest{
		Format: r.URL.Query().Get("format"),
		Token:  middleware.TokenFromContext(ctx),
	}
	if r.ContentLength != 0 {
		var snapshot domain.DashboardSnapshot
		if err := h.validator.DecodeJSON(w, r, &snapshot); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		req.Snapshot = &snapshot
	}

	saver := newResponseSaver(w)
	artifact, err := h.service.Monthly(ctx, req, saver)
	h.finish(w, r, saver, artifact, err)
}

// GetStatuses handles GET /api/v1/reports/status
func (h *ReportHandler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"exports": h.service.Statuses(),
	})
}

func (h *ReportHandler) export(w http.ResponseWriter, r *http.Request, req services.ExportRequest) {
	ctx, cancel := context.WithTimeout(r.Context(), h.exportTimeout)
	defer cancel()

	saver := newResponseSaver(w)
	artifact, err := h.service.Export(ctx, req, saver)
	h.finish(w, r, saver, artifact, err)
}

func (h *ReportHandler) finish(w http.ResponseWriter, r *http.Request, saver *responseSaver, artifact *domain.ExportArtifact, err error) {
	if err == nil {
		h.logger.InfoContext(r.Context(), "report delivered",
			slog.String("export_id", artifact.ID),
			slog.String("filename", artifact.Filename),
			slog.Int("records", artifact.RecordCount))
		return
	}
	if saver.written {
		// Headers are gone; the client sees a truncated download
		h.logger.ErrorContext(r.Context(), "report delivery interrupted",
			slog.String("error", err.Error()))
		return
	}
	h.errorHandler.HandleError(w, r, err)
}

func decodeRecords(req *services.ExportRequest, raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	switch req.RecordType {
	case domain.RecordTypeUsers:
		return json.Unmarshal(raw, &req.Users)
	case domain.RecordTypeEvents:
		return json.Unmarshal(raw, &req.Events)
	case domain.RecordTypeHotlines:
		return json.Unmarshal(raw, &req.Hotlines)
	default:
		return fmt.Errorf("no records for %s", req.RecordType)
	}
}

// responseSaver delivers an artifact as an HTTP attachment
type responseSaver struct {
	w       http.ResponseWriter
	written bool
}

func newResponseSaver(w http.ResponseWriter) *responseSaver {
	return &responseSaver{w: w}
}

// Save implements exporter.Saver
func (s *responseSaver) Save(_ context.Context, artifact *domain.ExportArtifact) error {
	header := s.w.Header()
	header.Set("Content-Type", artifact.ContentType)
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	header.Set("Content-Length", fmt.Sprint(len(artifact.Data)))
	header.Set(ExportIDHeader, artifact.ID)
	header.Set("Cache-Control", "no-store")

	s.written = true
	s.w.WriteHeader(http.StatusOK)
	if _, err := s.w.Write(artifact.Data); err != nil {
		return fmt.Errorf("failed to write report response: %w", err)
	}
	return nil
}
