package googlesheets

import (
	"context"
	"fmt"
	"strconv"

	sheetdash "github.com/ideamans/go-sheetdash"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Source implements the sheetdash.Source interface for Google Sheets
type Source struct {
	service     *sheets.Service
	targetSheet string
}

// NewSource creates a new Google Sheets source with provided options
func NewSource(ctx context.Context, config Config, opts ...option.ClientOption) (*Source, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	target := config.TargetSheet
	if target == "" {
		target = sheetdash.DefaultTargetSheet
	}

	return &Source{
		service:     service,
		targetSheet: target,
	}, nil
}

// Fetch reads the target worksheet of the spreadsheet
func (s *Source) Fetch(ctx context.Context, spreadsheetID string, maxRows int) (*sheetdash.Sheet, error) {
	meta, err := s.service.Spreadsheets.Get(spreadsheetID).
		Fields(googleapi.Field("properties.title,sheets.properties(sheetId,title)")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	titles := make([]string, len(meta.Sheets))
	for i, sheet := range meta.Sheets {
		if sheet.Properties != nil {
			titles[i] = sheet.Properties.Title
		}
	}

	index, err := sheetdash.SelectSheet(titles, s.targetSheet)
	if err != nil {
		return nil, err
	}

	result := &sheetdash.Sheet{
		SpreadsheetID: spreadsheetID,
		Name:          titles[index],
	}
	if meta.Properties != nil {
		result.SpreadsheetTitle = meta.Properties.Title
	}
	if p := meta.Sheets[index].Properties; p != nil {
		result.ID = p.SheetId
	}

	readRange := sheetdash.A1Range(result.Name, maxRows)
	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get sheet data: %w", err)
	}

	result.Values = sheetdash.Clip(toGrid(resp.Values), maxRows)

	return result, nil
}

func toGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		grid[i] = cells
	}
	return grid
}

// cellString converts a Google Sheets cell value to its display string
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}
