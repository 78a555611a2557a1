// Package errors carries the HTTP error surface of the report service and the
// export error taxonomy.
//
// Every failed export returns an *ExportError whose Kind is one of
// validation, fetch, empty_result, serialization or in_progress. The
// ErrorHandler renders it as RFC 7807 Problem Details with the matching
// status (400, 502, 404, 500, 409) and the user-facing notice only.
package errors
