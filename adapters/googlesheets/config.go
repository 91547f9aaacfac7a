package googlesheets

import (
	sheetdash "github.com/ideamans/go-sheetdash"
)

// Config represents configuration specific to the Google Sheets source
type Config struct {
	TargetSheet string // Worksheet title; the first worksheet is used when no title matches
}

// DefaultConfig returns the default configuration for the dashboard spreadsheet
func DefaultConfig() Config {
	return Config{
		TargetSheet: sheetdash.DefaultTargetSheet,
	}
}
