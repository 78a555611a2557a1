package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	API       APIConfig       `yaml:"api" envconfig:"API"`
	Reports   ReportsConfig   `yaml:"reports" envconfig:"REPORTS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	ExportTimeout   time.Duration `yaml:"export_timeout" envconfig:"EXPORT_TIMEOUT"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// APIConfig describes the remote Lakbay REST API the reports read from
type APIConfig struct {
	BaseURL         string        `yaml:"base_url" envconfig:"BASE_URL"`
	Token           string        `yaml:"token" envconfig:"TOKEN"`
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	AllRecordsLimit int           `yaml:"all_records_limit" envconfig:"ALL_RECORDS_LIMIT"`
	RPS             float64       `yaml:"rps" envconfig:"RPS"`
	Burst           int           `yaml:"burst" envconfig:"BURST"`
}

// ReportsConfig controls document generation and artifact naming
type ReportsConfig struct {
	AppName           string `yaml:"app_name" envconfig:"APP_NAME"`
	FilenamePrefix    string `yaml:"filename_prefix" envconfig:"FILENAME_PREFIX"`
	OutputDir         string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	Timezone          string `yaml:"timezone" envconfig:"TIMEZONE"`
	DefaultFormat     string `yaml:"default_format" envconfig:"DEFAULT_FORMAT"`
	ValidatePDF       bool   `yaml:"validate_pdf" envconfig:"VALIDATE_PDF"`
	DescriptionLength int    `yaml:"description_length" envconfig:"DESCRIPTION_LENGTH"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Location returns the time zone reports are generated in. An unknown zone
// falls back to UTC.
func (r ReportsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load builds the configuration from defaults, then the first config file
// found, then LAKBAY_* environment variables. Later sources win.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile decodes a YAML file over cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration and normalizes soft settings
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.API.BaseURL)
	}

	if c.API.AllRecordsLimit <= 0 {
		return fmt.Errorf("api all records limit must be positive")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}

	if _, err := time.LoadLocation(c.Reports.Timezone); err != nil {
		return fmt.Errorf("invalid reports timezone %q: %w", c.Reports.Timezone, err)
	}

	switch strings.ToLower(c.Reports.DefaultFormat) {
	case FormatPDF, FormatXLSX, FormatCSV:
		c.Reports.DefaultFormat = strings.ToLower(c.Reports.DefaultFormat)
	default:
		return fmt.Errorf("unsupported default report format: %q", c.Reports.DefaultFormat)
	}

	if c.Reports.DescriptionLength <= 0 {
		c.Reports.DescriptionLength = DefaultDescriptionLength
	}

	if c.Reports.FilenamePrefix == "" {
		c.Reports.FilenamePrefix = strings.ReplaceAll(c.Reports.AppName, " ", "")
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			ExportTimeout:   DefaultExportTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   10,
			},
		},
		API: APIConfig{
			BaseURL:         "http://localhost:5000/api",
			Timeout:         DefaultHTTPTimeout,
			AllRecordsLimit: DefaultAllRecordsLimit,
			RPS:             10,
			Burst:           5,
		},
		Reports: ReportsConfig{
			AppName:           AppName,
			FilenamePrefix:    FilenamePrefix,
			OutputDir:         DefaultReportsDir,
			Timezone:          DefaultTimezone,
			DefaultFormat:     FormatPDF,
			ValidatePDF:       true,
			DescriptionLength: DefaultDescriptionLength,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
