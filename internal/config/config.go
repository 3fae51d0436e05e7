// Package config collects the environment-driven configuration surface.
// Absence of the credential blob disables external submission; it never
// fails startup.
package config

import (
	"os"
	"time"
)

type Config struct {
	// External row store destination.
	SheetName      string
	WorksheetName  string
	SheetsEndpoint string
	CredsJSON      string

	// Timestamp zone for submitted rows.
	TimezoneName string

	// OTLP trace endpoint; empty disables tracing.
	OTLPEndpoint string
}

const defaultTimezone = "Asia/Tokyo"

// FromEnv reads the configuration from the environment.
func FromEnv() Config {
	return Config{
		SheetName:      envOr("SHEET_NAME", "AI_Ready_Responses"),
		WorksheetName:  envOr("WORKSHEET_NAME", "responses"),
		SheetsEndpoint: os.Getenv("SHEETS_ENDPOINT"),
		CredsJSON:      os.Getenv("SHEETS_CREDS"),
		TimezoneName:   envOr("QUIZ_TZ", defaultTimezone),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// SubmissionConfigured reports whether the external sheet can be written.
func (c Config) SubmissionConfigured() bool {
	return c.CredsJSON != "" && c.SheetsEndpoint != ""
}

// Location resolves the configured timezone, falling back to a fixed
// UTC+9 zone when the name cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimezoneName)
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
