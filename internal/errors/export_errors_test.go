package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportError_Constructors(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")

	tests := []struct {
		name       string
		err        *ExportError
		wantKind   ExportKind
		wantNotice string
		wantCause  error
	}{
		{
			name:       "validation keeps its own notice",
			err:        NewValidationError("Events", "endDate", "Start date must not be after end date"),
			wantKind:   KindValidation,
			wantNotice: "Start date must not be after end date",
		},
		{
			name:       "fetch uses generic notice",
			err:        NewFetchError("Users", cause),
			wantKind:   KindFetch,
			wantNotice: GenericFailureNotice,
			wantCause:  cause,
		},
		{
			name:       "empty result default notice",
			err:        NewEmptyResultError("Hotlines", ""),
			wantKind:   KindEmptyResult,
			wantNotice: "No records found for the selected filter",
		},
		{
			name:       "serialization uses generic notice",
			err:        NewSerializationError("Users", cause),
			wantKind:   KindSerialization,
			wantNotice: GenericFailureNotice,
			wantCause:  cause,
		},
		{
			name:       "in progress",
			err:        NewInProgressError("Events"),
			wantKind:   KindInProgress,
			wantNotice: "An export is already in progress",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.err.Kind)
			assert.Equal(t, tt.wantNotice, tt.err.Notice)
			assert.Equal(t, tt.wantKind, KindOf(tt.err))
			assert.Equal(t, tt.wantNotice, NoticeOf(tt.err))
			if tt.wantCause != nil {
				assert.ErrorIs(t, tt.err, tt.wantCause)
			}
		})
	}
}

func TestExportError_Wrapped(t *testing.T) {
	err := fmt.Errorf("generate users report: %w", NewInProgressError("Users"))

	assert.True(t, errors.Is(err, ErrExportInProgress))
	assert.False(t, errors.Is(NewFetchError("Users", nil), ErrExportInProgress))
	assert.Equal(t, KindInProgress, KindOf(err))
	assert.Contains(t, err.Error(), "Users export: in_progress")
}

func TestKindOf_PlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, ExportKind(""), KindOf(err))
	assert.Equal(t, GenericFailureNotice, NoticeOf(err))
}
