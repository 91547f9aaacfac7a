package common

import (
	"context"
	"reflect"
	"testing"

	sheetdash "github.com/ideamans/go-sheetdash"
)

// SourceTestCase represents a test case for a spreadsheet source
type SourceTestCase struct {
	Name          string
	Source        sheetdash.Source
	SpreadsheetID string
	Description   string
}

// TimelineGrid is the fixture written to local workbooks
var TimelineGrid = [][]string{
	{"Task", "Đã Hoàn Thành", "", "Owner"},
	{"Design", "x", "hidden", "An"},
	{"", "", "", ""},
	{"Build", "", "", "Bình"},
}

// TimelineJSON is the record list TimelineGrid transforms into
const TimelineJSON = `[{"task":"Design","da_hoan_thanh":"x","owner":"An"},{"task":"Build","da_hoan_thanh":"","owner":"Bình"}]`

// RunSourceContract checks the behaviour every Source must share, whatever the backend
func RunSourceContract(t *testing.T, tc SourceTestCase) *sheetdash.Sheet {
	t.Helper()

	ctx := context.Background()

	sheet, err := tc.Source.Fetch(ctx, tc.SpreadsheetID, sheetdash.MaxRows)
	if err != nil {
		t.Fatalf("[%s] Fetch() error = %v", tc.Name, err)
	}
	if sheet.Name == "" {
		t.Errorf("[%s] Fetch() returned a sheet without a name", tc.Name)
	}
	if len(sheet.Values) == 0 {
		t.Fatalf("[%s] Fetch() returned no rows", tc.Name)
	}
	if len(sheet.Values) > sheetdash.MaxRows {
		t.Errorf("[%s] Fetch() returned %d rows, limit is %d", tc.Name, len(sheet.Values), sheetdash.MaxRows)
	}
	for i, row := range sheet.Values {
		if len(row) > sheetdash.MaxColumns {
			t.Errorf("[%s] row %d has %d columns, limit is %d", tc.Name, i+1, len(row), sheetdash.MaxColumns)
		}
	}

	keys := make(map[string]bool)
	for _, h := range sheetdash.Headers(sheet.Values) {
		if h.Key != "" {
			keys[h.Key] = true
		}
	}

	records := sheetdash.Transform(sheet.Values)
	if len(records) > len(sheet.Values)-1 {
		t.Errorf("[%s] Transform() returned %d records from %d data rows", tc.Name, len(records), len(sheet.Values)-1)
	}
	for _, r := range records {
		for _, k := range r.Keys() {
			if !keys[k] {
				t.Errorf("[%s] row %d has key %q that is not in the header row", tc.Name, r.Row, k)
			}
		}
	}

	head, err := tc.Source.Fetch(ctx, tc.SpreadsheetID, 1)
	if err != nil {
		t.Fatalf("[%s] Fetch() header only error = %v", tc.Name, err)
	}
	if len(head.Values) != 1 {
		t.Fatalf("[%s] Fetch() header only returned %d rows, want 1", tc.Name, len(head.Values))
	}
	if !reflect.DeepEqual(head.Values[0], sheet.Values[0]) {
		t.Errorf("[%s] header row differs between fetches: %q vs %q", tc.Name, head.Values[0], sheet.Values[0])
	}

	return sheet
}
