package excel

import "errors"

var (
	// ErrMissingDir is returned when the workbook directory is not specified
	ErrMissingDir = errors.New("workbook directory is required")

	// ErrWorkbookNotFound is returned when no workbook exists for the spreadsheet id
	ErrWorkbookNotFound = errors.New("workbook not found")
)
