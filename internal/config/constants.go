package config

import "time"

// Application constants
const (
	AppName        = "Lakbay Cavite"
	FilenamePrefix = "LakbayCavite"
	EnvPrefix      = "LAKBAY"

	// Report formats
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	// Report generation
	DefaultDescriptionLength = 70
	DefaultAllRecordsLimit   = 10000
	DefaultTimezone          = "Asia/Manila"
	DefaultExportTimeout     = 2 * time.Minute

	// Network timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// File paths (relative to the working directory unless absolute)
	DefaultReportsDir = "data/reports"
	DefaultLogFile    = "logs/app.log"

	// HTTP endpoints
	ReportsEndpoint = "/api/v1/reports"
	HealthEndpoint  = "/api/health"
	VersionEndpoint = "/api/version"
	MetricsEndpoint = "/metrics"

	// WebSocket endpoint for export status
	WebSocketEndpoint = "/ws"
)

// Hotline categories known to the back office. Anything else is counted as
// OtherCategory.
const (
	CategoryFire     = "Fire"
	CategoryPolice   = "Police"
	CategoryMedical  = "Ambulance/ Medical"
	CategoryDisaster = "Disaster Response"
	OtherCategory    = "Others"

	// AllCategories is the category filter value meaning "no filter"
	AllCategories = "All Categories"
)

// HotlineCategories lists the known categories in display order
var HotlineCategories = []string{
	CategoryFire,
	CategoryPolice,
	CategoryMedical,
	CategoryDisaster,
}
