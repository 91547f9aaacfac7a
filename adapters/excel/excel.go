package excel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/xuri/excelize/v2"
)

// Source implements the sheetdash.Source interface for local Excel workbooks
type Source struct {
	config *Config
}

// New creates a new Excel source with the given configuration
func New(config *Config) (*Source, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create a copy of config to avoid external modifications
	configCopy := *config

	return &Source{
		config: &configCopy,
	}, nil
}

// Fetch reads the target worksheet of <Dir>/<spreadsheetID>.xlsx
func (s *Source) Fetch(ctx context.Context, spreadsheetID string, maxRows int) (*sheetdash.Sheet, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path := s.config.WorkbookPath(spreadsheetID)

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorkbookNotFound, path)
		}
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	index, err := sheetdash.SelectSheet(names, s.config.targetSheet())
	if err != nil {
		return nil, err
	}
	name := names[index]

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	sheetIndex, err := f.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet index: %w", err)
	}

	return &sheetdash.Sheet{
		SpreadsheetID:    spreadsheetID,
		SpreadsheetTitle: workbookTitle(f, path),
		Name:             name,
		ID:               int64(sheetIndex),
		Values:           sheetdash.Clip(rows, maxRows),
	}, nil
}

// workbookTitle prefers the document title property and falls back to the file name
func workbookTitle(f *excelize.File, path string) string {
	if props, err := f.GetDocProps(); err == nil && strings.TrimSpace(props.Title) != "" {
		return props.Title
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
