package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lakbaycli/internal/apiclient"
	apperrors "lakbaycli/internal/errors"
	"lakbaycli/internal/exporter"
	"lakbaycli/internal/shared/testutil"
	"lakbaycli/pkg/contracts/domain"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ListUsers(ctx context.Context, q apiclient.Query) (*apiclient.UsersResponse, error) {
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).(*apiclient.UsersResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) ListEvents(ctx context.Context, q apiclient.Query) (*apiclient.EventsResponse, error) {
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).(*apiclient.EventsResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) ListHotlines(ctx context.Context, q apiclient.Query) (*apiclient.HotlinesResponse, error) {
	args := m.Called(ctx, q)
	resp, _ := args.Get(0).(*apiclient.HotlinesResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) Dashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*domain.DashboardSnapshot)
	return resp, args.Error(1)
}

type memorySaver struct {
	mu        sync.Mutex
	artifacts []*domain.ExportArtifact
}

func (s *memorySaver) Save(_ context.Context, a *domain.ExportArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, a)
	return nil
}

type serviceHarness struct {
	mu      sync.Mutex
	api     *mockAPI
	tokens  []string
	svc     *ReportService
	saver   *memorySaver
	changes []domain.ExportStatus
}

func newServiceHarness(t *testing.T) *serviceHarness {
	logger, _ := testutil.NewTestLogger(t)
	h := &serviceHarness{api: &mockAPI{}, saver: &memorySaver{}}
	h.svc = NewReportService(func(token string) LakbayAPI {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.tokens = append(h.tokens, token)
		return h.api
	}, ReportServiceOptions{
		Settings: exporter.Settings{
			AppName:        "Lakbay Cavite",
			FilenamePrefix: "LakbayCavite",
			Location:       testutil.FixedNow.Location(),
			Now:            func() time.Time { return testutil.FixedNow },
		},
		DefaultFormat: "csv",
		Logger:        logger,
	})
	h.svc.AddListener(exporter.StatusListenerFunc(func(s domain.ExportStatus) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.changes = append(h.changes, s)
	}))
	return h
}

func TestReportService_ExportCurrentPage(t *testing.T) {
	h := newServiceHarness(t)

	artifact, err := h.svc.Export(context.Background(), ExportRequest{
		RecordType: domain.RecordTypeUsers,
		Mode:       ModeCurrent,
		Token:      "admin-token",
		Users:      testutil.Users(3, 2),
	}, h.saver)

	require.NoError(t, err)
	assert.Equal(t, "LakbayCavite_Users_2024-06-15.csv", artifact.Filename)
	assert.Len(t, h.saver.artifacts, 1)
	assert.Equal(t, []string{"admin-token"}, h.tokens)
	h.api.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)

	require.Len(t, h.changes, 2)
	assert.Equal(t, domain.ScopeCurrentPage, h.changes[0].Scope)
	assert.Equal(t, domain.ExportOutcomeSucceeded, h.changes[1].LastOutcome)
}

func TestReportService_ExportFilteredByDate(t *testing.T) {
	h := newServiceHarness(t)
	h.api.On("ListEvents", mock.Anything, mock.MatchedBy(func(q apiclient.Query) bool {
		return q.StartDate != nil && q.EndDate != nil
	})).Return(&apiclient.EventsResponse{Events: testutil.Events(2, 1)}, nil).Once()

	artifact, err := h.svc.Export(context.Background(), ExportRequest{
		RecordType: domain.RecordTypeEvents,
		Mode:       ModeFiltered,
		Format:     "pdf",
		Params:     exporter.ScopeParams{StartDate: "2024-06-01", EndDate: "2024-06-15"},
	}, h.saver)

	require.NoError(t, err)
	h.api.AssertExpectations(t)
	assert.Equal(t, "LakbayCavite_Events_2024-06-01_to_2024-06-15.pdf", artifact.Filename)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.Equal(t, domain.ScopeDateRange, h.changes[0].Scope)
}

func TestReportService_ExportRejections(t *testing.T) {
	tests := []struct {
		name      string
		req       ExportRequest
		wantField string
	}{
		{
			name:      "monthly is not a list export",
			req:       ExportRequest{RecordType: domain.RecordTypeMonthly, Mode: ModeAll},
			wantField: "type",
		},
		{
			name:      "unknown mode",
			req:       ExportRequest{RecordType: domain.RecordTypeUsers, Mode: "everything"},
			wantField: "mode",
		},
		{
			name:      "unknown format",
			req:       ExportRequest{RecordType: domain.RecordTypeUsers, Mode: ModeAll, Format: "docx"},
			wantField: "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newServiceHarness(t)

			_, err := h.svc.Export(context.Background(), tt.req, h.saver)

			var exportErr *apperrors.ExportError
			require.True(t, errors.As(err, &exportErr))
			assert.Equal(t, apperrors.KindValidation, exportErr.Kind)
			assert.Equal(t, tt.wantField, exportErr.Field)
			assert.Empty(t, h.changes, "rejected requests never reach a trigger")
		})
	}
}

func TestReportService_FailedFetchReturnsTriggerToIdle(t *testing.T) {
	h := newServiceHarness(t)
	h.api.On("ListHotlines", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := h.svc.Export(context.Background(), ExportRequest{RecordType: domain.RecordTypeHotlines, Mode: ModeAll}, h.saver)

	assert.Equal(t, apperrors.KindFetch, apperrors.KindOf(err))
	status, ok := h.svc.Status(domain.RecordTypeHotlines)
	require.True(t, ok)
	assert.Equal(t, domain.ExportStateIdle, status.State)
	assert.Equal(t, domain.ExportOutcomeFailed, status.LastOutcome)
	assert.Equal(t, apperrors.GenericFailureNotice, status.Notice)
	assert.Empty(t, h.saver.artifacts)
}

func TestReportService_TriggersAreIndependent(t *testing.T) {
	h := newServiceHarness(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	h.api.On("ListUsers", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(&apiclient.UsersResponse{Users: testutil.Users(1, 1)}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := h.svc.Export(context.Background(), ExportRequest{RecordType: domain.RecordTypeUsers, Mode: ModeAll}, &memorySaver{})
		done <- err
	}()
	<-entered

	_, err := h.svc.Export(context.Background(), ExportRequest{RecordType: domain.RecordTypeUsers, Mode: ModeCurrent}, &memorySaver{})
	assert.ErrorIs(t, err, apperrors.ErrExportInProgress)

	_, err = h.svc.Export(context.Background(), ExportRequest{
		RecordType: domain.RecordTypeHotlines,
		Mode:       ModeCurrent,
		Hotlines:   testutil.Hotlines("Fire"),
	}, &memorySaver{})
	assert.NoError(t, err)

	close(release)
	assert.NoError(t, <-done)
}

func TestReportService_Monthly(t *testing.T) {
	t.Run("uses the given snapshot", func(t *testing.T) {
		h := newServiceHarness(t)
		snapshot := &domain.DashboardSnapshot{RecentUsers: testutil.Users(2, 2)}

		artifact, err := h.svc.Monthly(context.Background(), MonthlyRequest{Snapshot: snapshot}, h.saver)

		require.NoError(t, err)
		assert.Equal(t, "LakbayCavite_Monthly_Report_2024-06.csv", artifact.Filename)
		h.api.AssertNotCalled(t, "Dashboard", mock.Anything)
	})

	t.Run("fetches the dashboard when no snapshot is given", func(t *testing.T) {
		h := newServiceHarness(t)
		h.api.On("Dashboard", mock.Anything).Return(&domain.DashboardSnapshot{}, nil).Once()

		_, err := h.svc.Monthly(context.Background(), MonthlyRequest{Token: "t"}, h.saver)

		require.NoError(t, err)
		h.api.AssertExpectations(t)
	})

	t.Run("dashboard failure is a fetch error", func(t *testing.T) {
		h := newServiceHarness(t)
		h.api.On("Dashboard", mock.Anything).Return(nil, apiclient.ErrUnauthorized).Once()

		_, err := h.svc.Monthly(context.Background(), MonthlyRequest{}, h.saver)

		assert.Equal(t, apperrors.KindFetch, apperrors.KindOf(err))
		assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	})
}

func TestReportService_Statuses(t *testing.T) {
	h := newServiceHarness(t)

	statuses := h.svc.Statuses()

	require.Len(t, statuses, len(RecordTypes))
	for i, rt := range RecordTypes {
		assert.Equal(t, rt, statuses[i].RecordType)
		assert.Equal(t, domain.ExportStateIdle, statuses[i].State)
	}
	_, ok := h.svc.Status("Posts")
	assert.False(t, ok)
}

func TestScopeKindOf(t *testing.T) {
	assert.Equal(t, domain.ScopeCurrentPage, scopeKindOf(ModeCurrent, exporter.ScopeParams{}))
	assert.Equal(t, domain.ScopeAllRecords, scopeKindOf(ModeAll, exporter.ScopeParams{}))
	assert.Equal(t, domain.ScopeAllRecords, scopeKindOf(ModeFiltered, exporter.ScopeParams{Category: "All Categories"}))
	assert.Equal(t, domain.ScopeDateRange, scopeKindOf(ModeFiltered, exporter.ScopeParams{StartDate: "2024-06-01"}))
	assert.Equal(t, domain.ScopeCategoryFilter, scopeKindOf(ModeFiltered, exporter.ScopeParams{Category: "Fire"}))
}
