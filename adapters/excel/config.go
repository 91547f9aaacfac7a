package excel

import (
	"path/filepath"

	sheetdash "github.com/ideamans/go-sheetdash"
)

// Config holds configuration for the Excel source
type Config struct {
	Dir         string // Directory holding <spreadsheetID>.xlsx workbooks
	TargetSheet string // Worksheet title; the first worksheet is used when no title matches
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dir == "" {
		return ErrMissingDir
	}
	return nil
}

// WorkbookPath returns the workbook file for a spreadsheet id.
// Only the base name of the id is used so lookups stay inside Dir.
func (c *Config) WorkbookPath(spreadsheetID string) string {
	return filepath.Join(c.Dir, filepath.Base(spreadsheetID)+".xlsx")
}

func (c *Config) targetSheet() string {
	if c.TargetSheet == "" {
		return sheetdash.DefaultTargetSheet
	}
	return c.TargetSheet
}
