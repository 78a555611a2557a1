package exporter

import (
	"log/slog"
	"time"

	"lakbaycli/internal/config"
)

// Settings are the knobs shared by every generator
type Settings struct {
	AppName           string
	FilenamePrefix    string
	Location          *time.Location
	AllRecordsLimit   int
	DescriptionLength int
	// Now is the clock; nil means time.Now
	Now    func() time.Time
	Logger *slog.Logger
}

// SettingsFromConfig derives generator settings from the service config
func SettingsFromConfig(cfg *config.Config, logger *slog.Logger) Settings {
	return Settings{
		AppName:           cfg.Reports.AppName,
		FilenamePrefix:    cfg.Reports.FilenamePrefix,
		Location:          cfg.Reports.Location(),
		AllRecordsLimit:   cfg.API.AllRecordsLimit,
		DescriptionLength: cfg.Reports.DescriptionLength,
		Logger:            logger,
	}
}

func (s Settings) withDefaults() Settings {
	if s.AppName == "" {
		s.AppName = config.AppName
	}
	if s.FilenamePrefix == "" {
		s.FilenamePrefix = config.FilenamePrefix
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.AllRecordsLimit <= 0 {
		s.AllRecordsLimit = config.DefaultAllRecordsLimit
	}
	if s.DescriptionLength <= 0 {
		s.DescriptionLength = config.DefaultDescriptionLength
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	return s
}

func (s Settings) now() time.Time {
	return s.Now().In(s.Location)
}
