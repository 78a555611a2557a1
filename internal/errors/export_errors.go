package errors

import (
	"errors"
	"fmt"
)

// ExportKind classifies why an export attempt did not produce an artifact
type ExportKind string

const (
	// KindValidation is a local, pre-network rejection of the requested scope
	KindValidation ExportKind = "validation"
	// KindFetch is a failure talking to the Lakbay API
	KindFetch ExportKind = "fetch"
	// KindEmptyResult is a successful fetch that matched no records
	KindEmptyResult ExportKind = "empty_result"
	// KindSerialization is a failure rendering or encoding the document
	KindSerialization ExportKind = "serialization"
	// KindInProgress is a second export on a busy trigger
	KindInProgress ExportKind = "in_progress"
)

// GenericFailureNotice is shown for fetch and serialization failures. The
// cause is logged, never surfaced.
const GenericFailureNotice = "Failed to generate report. Please try again."

// ExportError is the error returned by every failed export. Notice is the
// user-facing message.
type ExportError struct {
	Kind       ExportKind
	RecordType string
	Field      string
	Notice     string
	Cause      error
}

func (e *ExportError) Error() string {
	msg := fmt.Sprintf("%s export: %s", e.RecordType, e.Kind)
	if e.Notice != "" {
		msg += ": " + e.Notice
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Is matches any *ExportError of the same kind so callers can write
// errors.Is(err, ErrExportInProgress).
func (e *ExportError) Is(target error) bool {
	t, ok := target.(*ExportError)
	if !ok {
		return false
	}
	return t.RecordType == "" && t.Kind == e.Kind
}

// ErrExportInProgress is matched by every re-entrancy rejection
var ErrExportInProgress = &ExportError{Kind: KindInProgress, Notice: "An export is already in progress"}

// NewValidationError rejects an invalid scope before any fetch
func NewValidationError(recordType, field, notice string) *ExportError {
	return &ExportError{Kind: KindValidation, RecordType: recordType, Field: field, Notice: notice}
}

// NewFetchError wraps an API failure
func NewFetchError(recordType string, cause error) *ExportError {
	return &ExportError{Kind: KindFetch, RecordType: recordType, Notice: GenericFailureNotice, Cause: cause}
}

// NewEmptyResultError reports a constrained scope that matched nothing
func NewEmptyResultError(recordType, notice string) *ExportError {
	if notice == "" {
		notice = "No records found for the selected filter"
	}
	return &ExportError{Kind: KindEmptyResult, RecordType: recordType, Notice: notice}
}

// NewSerializationError wraps a rendering failure
func NewSerializationError(recordType string, cause error) *ExportError {
	return &ExportError{Kind: KindSerialization, RecordType: recordType, Notice: GenericFailureNotice, Cause: cause}
}

// NewInProgressError rejects a re-entrant export
func NewInProgressError(recordType string) *ExportError {
	return &ExportError{Kind: KindInProgress, RecordType: recordType, Notice: ErrExportInProgress.Notice}
}

// KindOf returns the export kind of err, or "" if err is not an export error
func KindOf(err error) ExportKind {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return ""
}

// NoticeOf returns the user-facing notice for err. Anything that is not an
// export error gets the generic notice.
func NoticeOf(err error) string {
	var exportErr *ExportError
	if errors.As(err, &exportErr) && exportErr.Notice != "" {
		return exportErr.Notice
	}
	return GenericFailureNotice
}
