package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	apperrors "lakbaycli/internal/errors"
	"lakbaycli/internal/infrastructure"
	"lakbaycli/pkg/contracts/domain"
)

// StatusListener is told about every trigger transition
type StatusListener interface {
	ExportStatusChanged(status domain.ExportStatus)
}

// StatusListenerFunc adapts a function to StatusListener
type StatusListenerFunc func(status domain.ExportStatus)

// ExportStatusChanged implements StatusListener
func (f StatusListenerFunc) ExportStatusChanged(status domain.ExportStatus) { f(status) }

// TriggerOptions configures a Trigger
type TriggerOptions struct {
	Logger    *slog.Logger
	Metrics   *infrastructure.ExportMetrics
	Listeners []StatusListener
	// Now is the clock; nil means time.Now
	Now func() time.Time
}

// Trigger is the in-flight guard of one record type. It lets one export run
// at a time and always returns to idle, whatever the outcome.
type Trigger struct {
	recordType domain.RecordType
	sem        *semaphore.Weighted
	logger     *slog.Logger
	metrics    *infrastructure.ExportMetrics
	listeners  []StatusListener
	now        func() time.Time

	mu     sync.RWMutex
	status domain.ExportStatus
}

// NewTrigger creates an idle trigger
func NewTrigger(recordType domain.RecordType, opts TriggerOptions) *Trigger {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Trigger{
		recordType: recordType,
		sem:        semaphore.NewWeighted(1),
		logger:     logger.With(slog.String("component", "trigger"), slog.String("record_type", string(recordType))),
		metrics:    opts.Metrics,
		listeners:  opts.Listeners,
		now:        now,
		status:     domain.ExportStatus{RecordType: recordType, State: domain.ExportStateIdle},
	}
}

// Run executes export unless another export of this trigger is in flight,
// in which case it fails at once with an in_progress export error. A panic
// inside export is reported as a serialization failure.
func (t *Trigger) Run(ctx context.Context, scope domain.ScopeKind, export func(ctx context.Context) (*domain.ExportArtifact, error)) (artifact *domain.ExportArtifact, err error) {
	if !t.sem.TryAcquire(1) {
		t.logger.WarnContext(ctx, "export rejected, already in progress", slog.String("scope", string(scope)))
		return nil, apperrors.NewInProgressError(string(t.recordType))
	}

	exportID := uuid.NewString()
	started := t.now()
	t.metrics.Started(ctx, string(t.recordType))
	t.transition(func(s *domain.ExportStatus) {
		s.State = domain.ExportStateInProgress
		s.ExportID = exportID
		s.Scope = scope
		s.Notice = ""
		s.Filename = ""
		s.StartedAt = &started
		s.FinishedAt = nil
	})

	defer func() {
		if rec := recover(); rec != nil {
			t.logger.ErrorContext(ctx, "export panicked", slog.Any("panic", rec))
			artifact = nil
			err = apperrors.NewSerializationError(string(t.recordType), fmt.Errorf("panic: %v", rec))
		}

		outcome := outcomeOf(err)
		finished := t.now()
		size := 0
		filename := ""
		if artifact != nil {
			size = len(artifact.Data)
			filename = artifact.Filename
		}
		t.metrics.Finished(ctx, string(t.recordType), string(scope), string(outcome), finished.Sub(started), size)

		t.transition(func(s *domain.ExportStatus) {
			s.State = domain.ExportStateIdle
			s.LastOutcome = outcome
			s.Filename = filename
			s.FinishedAt = &finished
			if err != nil {
				s.Notice = apperrors.NoticeOf(err)
			}
		})
		t.sem.Release(1)
	}()

	return export(WithExportID(ctx, exportID))
}

// Status returns the current status snapshot
func (t *Trigger) Status() domain.ExportStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// InProgress reports whether an export is running
func (t *Trigger) InProgress() bool {
	return t.Status().State == domain.ExportStateInProgress
}

// AddListener subscribes l to later transitions
func (t *Trigger) AddListener(l StatusListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners[:len(t.listeners):len(t.listeners)], l)
}

// RecordType is the record type this trigger guards
func (t *Trigger) RecordType() domain.RecordType {
	return t.recordType
}

func (t *Trigger) transition(update func(s *domain.ExportStatus)) {
	t.mu.Lock()
	update(&t.status)
	snapshot := t.status
	listeners := t.listeners
	t.mu.Unlock()

	for _, l := range listeners {
		l.ExportStatusChanged(snapshot)
	}
}

func outcomeOf(err error) domain.ExportOutcome {
	switch {
	case err == nil:
		return domain.ExportOutcomeSucceeded
	case apperrors.KindOf(err) == apperrors.KindEmptyResult:
		return domain.ExportOutcomeAborted
	default:
		return domain.ExportOutcomeFailed
	}
}
