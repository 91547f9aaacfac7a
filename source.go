package sheetdash

import (
	"context"
	"fmt"
	"strings"
)

const (
	// DefaultTargetSheet is the worksheet read when present
	DefaultTargetSheet = "Project Timeline"

	MaxRows    = 5000
	MaxColumns = 52 // A..AZ
)

// Sheet is one worksheet read from a spreadsheet
type Sheet struct {
	SpreadsheetID    string
	SpreadsheetTitle string
	Name             string
	ID               int64 // worksheet id (gid) within the spreadsheet
	Values           [][]string
}

// Source interface defines how spreadsheets are read from a backend
type Source interface {
	// Fetch reads up to maxRows rows and MaxColumns columns of the target sheet
	Fetch(ctx context.Context, spreadsheetID string, maxRows int) (*Sheet, error)
}

// SelectSheet returns the index of the sheet titled target, or 0 when no title matches exactly.
// It returns ErrNoSheets for an empty list.
func SelectSheet(titles []string, target string) (int, error) {
	if len(titles) == 0 {
		return -1, ErrNoSheets
	}

	for i, title := range titles {
		if title == target {
			return i, nil
		}
	}

	return 0, nil
}

// A1Range returns the A1 notation covering rows x MaxColumns of the named sheet
func A1Range(sheetName string, rows int) string {
	if rows <= 0 {
		rows = MaxRows
	}
	quoted := "'" + strings.ReplaceAll(sheetName, "'", "''") + "'"
	return fmt.Sprintf("%s!A1:%s%d", quoted, ColumnName(MaxColumns), rows)
}

// ColumnName converts a column number to a spreadsheet column name (1 -> A, 26 -> Z, 27 -> AA)
func ColumnName(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

// Clip limits a grid to maxRows rows and MaxColumns columns
func Clip(grid [][]string, maxRows int) [][]string {
	if maxRows > 0 && len(grid) > maxRows {
		grid = grid[:maxRows]
	}

	for i, row := range grid {
		if len(row) > MaxColumns {
			grid[i] = row[:MaxColumns]
		}
	}

	return grid
}
