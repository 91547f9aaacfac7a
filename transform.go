package sheetdash

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that carry no combining mark under NFD and need an explicit base letter.
var localeLetters = strings.NewReplacer(
	"đ", "d",
	"ł", "l",
	"ø", "o",
	"ħ", "h",
	"ı", "i",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
)

// Header describes one header cell and the record key derived from it
type Header struct {
	Index  int
	Column string // A, B, ... AZ
	Title  string
	Key    string // empty when the column is skipped
}

// NormalizeKey converts a header cell into an identifier-safe record key.
// The result only contains [a-z0-9_] and is empty for blank headers.
func NormalizeKey(header string) string {
	key := strings.ToLower(header)
	key = strings.Join(strings.Fields(key), "_")

	// transform.Chain keeps state, build one per call
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripMarks, key); err == nil {
		key = stripped
	}

	key = localeLetters.Replace(key)

	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// HasContent reports whether any cell in the row is non-empty after trimming
func HasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// Headers describes the header row (row 0) of the grid
func Headers(grid [][]string) []Header {
	if len(grid) == 0 {
		return []Header{}
	}

	headers := make([]Header, len(grid[0]))
	for i, title := range grid[0] {
		headers[i] = Header{
			Index:  i,
			Column: ColumnName(i + 1),
			Title:  title,
			Key:    NormalizeKey(title),
		}
	}

	return headers
}

// Transform converts a grid whose first row holds the headers into records.
// Rows without any non-blank cell are dropped; the remaining rows keep their order.
func Transform(grid [][]string) []*Record {
	records := make([]*Record, 0)
	if len(grid) == 0 {
		return records
	}

	headers := Headers(grid)

	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if !HasContent(row) {
			continue
		}

		record := NewRecord(i + 1)
		for _, h := range headers {
			if h.Key == "" {
				continue
			}

			value := ""
			if h.Index < len(row) {
				value = row[h.Index]
			}
			record.Set(h.Key, value)
		}

		records = append(records, record)
	}

	return records
}
