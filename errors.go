package sheetdash

import "errors"

var (
	ErrNotConfigured  = errors.New("server not configured: no service account credentials")
	ErrNoSheets       = errors.New("spreadsheet has no sheets")
	ErrMissingSheetID = errors.New("missing sheet id")
	ErrInvalidSource  = errors.New("invalid source")

	ErrInvalidCondition = errors.New("invalid condition")
)
