package domain

import "time"

// ExportArtifact is the serialized report plus the filename it is delivered
// under. It is handed to a saver once and never retained.
type ExportArtifact struct {
	ID          string      `json:"id"`
	RecordType  RecordType  `json:"record_type"`
	Scope       ReportScope `json:"scope"`
	Filename    string      `json:"filename"`
	ContentType string      `json:"content_type"`
	Data        []byte      `json:"-"`
	RecordCount int         `json:"record_count"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// ExportState is the in-flight flag of a trigger
type ExportState string

const (
	ExportStateIdle       ExportState = "idle"
	ExportStateInProgress ExportState = "in_progress"
)

// ExportOutcome is how the last export of a trigger ended
type ExportOutcome string

const (
	ExportOutcomeNone      ExportOutcome = ""
	ExportOutcomeSucceeded ExportOutcome = "succeeded"
	ExportOutcomeFailed    ExportOutcome = "failed"
	ExportOutcomeAborted   ExportOutcome = "aborted"
)

// ExportStatus is a point-in-time view of a trigger
type ExportStatus struct {
	RecordType  RecordType    `json:"record_type"`
	State       ExportState   `json:"state"`
	ExportID    string        `json:"export_id,omitempty"`
	Scope       ScopeKind     `json:"scope,omitempty"`
	LastOutcome ExportOutcome `json:"last_outcome,omitempty"`
	Notice      string        `json:"notice,omitempty"`
	Filename    string        `json:"filename,omitempty"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}
