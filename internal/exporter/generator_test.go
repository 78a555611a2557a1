package exporter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakbaycli/internal/apiclient"
	"lakbaycli/internal/config"
	apperrors "lakbaycli/internal/errors"
	"lakbaycli/internal/report"
	"lakbaycli/internal/shared/testutil"
	"lakbaycli/pkg/contracts/domain"
)

func TestGenerator_GenerateCurrent(t *testing.T) {
	h := newUserHarness(nil, nil)
	records := testutil.Users(5, 3)

	artifact, err := h.gen.GenerateCurrent(context.Background(), h.saver, records)

	require.NoError(t, err)
	assert.Equal(t, 0, h.log.count("fetch"))
	require.Len(t, h.saver.artifacts, 1)
	assert.Same(t, artifact, h.saver.artifacts[0])
	assert.Equal(t, 5, artifact.RecordCount)
	assert.Equal(t, domain.ScopeCurrentPage, artifact.Scope.Kind)
	assert.Equal(t, "LakbayCavite_Users_2024-06-15.pdf", artifact.Filename)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.NotEmpty(t, artifact.ID)

	require.Len(t, h.inputs, 1)
	assert.Empty(t, h.inputs[0].ScopeLabel)
	assert.Equal(t, 3, h.inputs[0].Counts.Get(report.LabelActive))
	assert.Equal(t, 2, h.inputs[0].Counts.Get(report.LabelInactive))

	stats := h.renderer.docs[0].Stats.Items
	assert.Equal(t, []int{5, 3, 2}, []int{stats[0].Value, stats[1].Value, stats[2].Value})
}

func TestGenerator_GenerateCurrent_EmptyRendersPlaceholder(t *testing.T) {
	h := newUserHarness(nil, nil)

	_, err := h.gen.GenerateCurrent(context.Background(), h.saver, nil)

	require.NoError(t, err)
	table := h.renderer.docs[0].Tables[0]
	assert.Len(t, table.Rows, 1)
	assert.True(t, table.Rows[0].Placeholder)
	assert.Equal(t, 0, table.DataRows())
}

func TestGenerator_PipelineOrder(t *testing.T) {
	h := newUserHarness(testutil.Users(3, 1), nil)

	_, err := h.gen.GenerateAll(context.Background(), h.saver)

	require.NoError(t, err)
	assert.Equal(t, []string{"fetch", "aggregate", "template", "render", "save"}, h.log.list())
}

func TestGenerator_GenerateAll(t *testing.T) {
	h := newUserHarness(testutil.Users(4, 4), nil)

	artifact, err := h.gen.GenerateAll(context.Background(), h.saver)

	require.NoError(t, err)
	require.Len(t, h.fetcher.queries, 1)
	assert.Equal(t, apiclient.Query{Limit: 10000}, h.fetcher.queries[0])
	assert.Equal(t, domain.ScopeAllRecords, artifact.Scope.Kind)
	assert.Equal(t, 4, artifact.RecordCount)
	assert.Equal(t, "LakbayCavite_Users_2024-06-15.pdf", artifact.Filename)
}

func TestGenerator_Failures(t *testing.T) {
	tests := []struct {
		name       string
		records    []domain.User
		fetchErr   error
		renderErr  error
		saveErr    error
		wantKind   apperrors.ExportKind
		wantNotice string
		wantSaves  int
	}{
		{
			name:       "empty all records",
			wantKind:   apperrors.KindEmptyResult,
			wantNotice: "No users available to export",
		},
		{
			name:       "fetch failure",
			fetchErr:   errAPIDown,
			wantKind:   apperrors.KindFetch,
			wantNotice: apperrors.GenericFailureNotice,
		},
		{
			name:       "serialization failure",
			records:    testutil.Users(2, 1),
			renderErr:  errors.New("font table corrupt"),
			wantKind:   apperrors.KindSerialization,
			wantNotice: apperrors.GenericFailureNotice,
		},
		{
			name:       "save failure",
			records:    testutil.Users(2, 1),
			saveErr:    errors.New("disk full"),
			wantKind:   apperrors.KindSerialization,
			wantNotice: apperrors.GenericFailureNotice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newUserHarness(tt.records, tt.fetchErr)
			h.renderer.err = tt.renderErr
			h.saver.err = tt.saveErr

			artifact, err := h.gen.GenerateAll(context.Background(), h.saver)

			require.Error(t, err)
			assert.Nil(t, artifact)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			assert.Equal(t, tt.wantNotice, apperrors.NoticeOf(err))
			assert.Empty(t, h.saver.artifacts)
			if tt.fetchErr != nil {
				assert.ErrorIs(t, err, tt.fetchErr)
				assert.Equal(t, 0, h.log.count("render"))
			}
		})
	}
}

func TestGenerator_GenerateFiltered_DateRange(t *testing.T) {
	h := newUserHarness(testutil.Users(2, 1), nil)

	artifact, err := h.gen.GenerateFiltered(context.Background(), h.saver, ScopeParams{
		StartDate: "2024-06-01",
		EndDate:   "2024-06-01",
	})

	require.NoError(t, err)
	require.Len(t, h.fetcher.queries, 1)
	q := h.fetcher.queries[0]
	require.NotNil(t, q.StartDate)
	require.NotNil(t, q.EndDate)
	assert.Equal(t, "2024-06-01T00:00:00.000+08:00", q.StartDate.Format(apiclient.TimestampLayout))
	assert.Equal(t, "2024-06-01T23:59:59.999+08:00", q.EndDate.Format(apiclient.TimestampLayout))
	assert.Equal(t, config.DefaultAllRecordsLimit, q.Limit, "a filtered export requests every matching record")

	assert.Equal(t, domain.ScopeDateRange, artifact.Scope.Kind)
	assert.Equal(t, "LakbayCavite_Users_2024-06-01_to_2024-06-01.pdf", artifact.Filename)
	assert.Equal(t, "Date Range: June 1, 2024 - June 1, 2024", h.inputs[0].ScopeLabel)
}

func TestGenerator_GenerateFiltered_Validation(t *testing.T) {
	tests := []struct {
		name      string
		params    ScopeParams
		wantField string
	}{
		{name: "start after end", params: ScopeParams{StartDate: "2024-06-02", EndDate: "2024-06-01"}, wantField: "startDate"},
		{name: "missing end", params: ScopeParams{StartDate: "2024-06-02"}, wantField: "endDate"},
		{name: "missing start", params: ScopeParams{EndDate: "2024-06-02"}, wantField: "startDate"},
		{name: "bad start", params: ScopeParams{StartDate: "06/01/2024", EndDate: "2024-06-02"}, wantField: "startDate"},
		{name: "bad end", params: ScopeParams{StartDate: "2024-06-01", EndDate: "tomorrow"}, wantField: "endDate"},
		{name: "unknown category", params: ScopeParams{Category: "Banned"}, wantField: "category"},
		{name: "dates and category", params: ScopeParams{StartDate: "2024-06-01", EndDate: "2024-06-02", Category: "Active"}, wantField: "category"},
		{name: "nothing selected", params: ScopeParams{}, wantField: "startDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newUserHarness(testutil.Users(2, 1), nil)

			artifact, err := h.gen.GenerateFiltered(context.Background(), h.saver, tt.params)

			require.Error(t, err)
			assert.Nil(t, artifact)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
			var exportErr *apperrors.ExportError
			require.ErrorAs(t, err, &exportErr)
			assert.Equal(t, tt.wantField, exportErr.Field)
			assert.Empty(t, h.log.list(), "no stage may run on a rejected scope")
		})
	}
}

func TestGenerator_GenerateFiltered_Empty(t *testing.T) {
	tests := []struct {
		name       string
		params     ScopeParams
		wantNotice string
	}{
		{name: "date range", params: ScopeParams{StartDate: "2024-01-01", EndDate: "2024-01-31"}, wantNotice: "No users found in the selected date range"},
		{name: "category", params: ScopeParams{Category: "Inactive"}, wantNotice: "No users found for category Inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newUserHarness(nil, nil)

			_, err := h.gen.GenerateFiltered(context.Background(), h.saver, tt.params)

			assert.Equal(t, apperrors.KindEmptyResult, apperrors.KindOf(err))
			assert.Equal(t, tt.wantNotice, apperrors.NoticeOf(err))
			assert.Equal(t, 1, h.log.count("fetch"))
			assert.Equal(t, 0, h.log.count("render"))
			assert.Empty(t, h.saver.artifacts)
		})
	}
}

func TestGenerator_GenerateFiltered_StatusCategory(t *testing.T) {
	h := newUserHarness(testutil.Users(2, 2), nil)

	artifact, err := h.gen.GenerateFiltered(context.Background(), h.saver, ScopeParams{Category: "Active"})

	require.NoError(t, err)
	assert.Equal(t, apiclient.Query{Status: "active", Limit: config.DefaultAllRecordsLimit}, h.fetcher.queries[0])
	assert.Equal(t, "LakbayCavite_Users_Active_2024-06-15.pdf", artifact.Filename)
	assert.Equal(t, "Category: Active", h.inputs[0].ScopeLabel)
}

func TestGenerator_AllCategoriesMatchesGenerateAll(t *testing.T) {
	records := testutil.Users(3, 2)

	all := newUserHarness(records, nil)
	allArtifact, err := all.gen.GenerateAll(context.Background(), all.saver)
	require.NoError(t, err)

	filtered := newUserHarness(records, nil)
	filteredArtifact, err := filtered.gen.GenerateFiltered(context.Background(), filtered.saver, ScopeParams{Category: "All Categories"})
	require.NoError(t, err)

	assert.Equal(t, all.fetcher.queries, filtered.fetcher.queries)
	assert.Equal(t, all.log.list(), filtered.log.list())
	assert.Equal(t, all.renderer.docs, filtered.renderer.docs)
	assert.Equal(t, allArtifact.Filename, filteredArtifact.Filename)
	assert.Equal(t, allArtifact.Scope, filteredArtifact.Scope)
}

func TestGenerator_ExportIDFromContext(t *testing.T) {
	h := newUserHarness(nil, nil)

	ctx := WithExportID(context.Background(), "export-123")
	artifact, err := h.gen.GenerateCurrent(ctx, h.saver, testutil.Users(1, 1))

	require.NoError(t, err)
	assert.Equal(t, "export-123", artifact.ID)
}
