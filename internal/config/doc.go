// Package config provides centralized configuration management for the
// Lakbay Cavite report service.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//  1. Default() values
//  2. A YAML file (LAKBAY_CONFIG_FILE, config.yaml or configs/config.yaml)
//  3. Environment variables
//
// # Environment Variables
//
// All environment variables use the LAKBAY_ prefix and follow the struct
// layout:
//
//	LAKBAY_SERVER_PORT=8080
//	LAKBAY_API_BASE_URL=https://api.lakbaycavite.ph/api
//	LAKBAY_API_TOKEN=...
//	LAKBAY_REPORTS_TIMEZONE=Asia/Manila
//	LAKBAY_REPORTS_DEFAULT_FORMAT=pdf
//	LAKBAY_LOGGING_LEVEL=debug
//
// # Paths
//
// Config.ResolvePaths turns the configured reports and logs directories into
// absolute paths; Paths.GetReportPath names the file a CLI export is saved to.
package config
