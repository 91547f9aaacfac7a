package sheetdash

import (
	"fmt"
	"strconv"
	"strings"
)

// Operators understood by ParseCondition, longest first so ">=" wins over ">" at the same position
var operators = []string{"==", "!=", ">=", "<=", "~=", ">", "<"}

// Condition represents a single filter condition on a record key
type Condition struct {
	Key      string // 正規化済みのキー名
	Operator string // 演算子: ==, !=, >, >=, <, <=, ~= (部分一致)
	Value    string
}

// Query represents a filter with multiple conditions
type Query struct {
	Conditions []Condition // AND条件として評価
	Limit      int
	Offset     int
}

// ParseCondition parses an expression such as "status==Done" or "progress>=50".
// The key side is normalized the same way as header cells.
func ParseCondition(expr string) (Condition, error) {
	// the earliest operator splits key from value; later ones belong to the value
	for i := 0; i < len(expr); i++ {
		for _, op := range operators {
			if !strings.HasPrefix(expr[i:], op) {
				continue
			}

			key := NormalizeKey(expr[:i])
			if key == "" {
				return Condition{}, fmt.Errorf("%w: missing key in %q", ErrInvalidCondition, expr)
			}

			return Condition{
				Key:      key,
				Operator: op,
				Value:    strings.TrimSpace(expr[i+len(op):]),
			}, nil
		}
	}

	return Condition{}, fmt.Errorf("%w: no operator in %q", ErrInvalidCondition, expr)
}

// evalCondition evaluates a single condition against a record
func evalCondition(record *Record, condition Condition) bool {
	// 存在しないキーは空文字として扱う
	value := record.GetAsString(condition.Key, "")

	switch condition.Operator {
	case "==":
		return compareEqual(value, condition.Value)
	case "!=":
		return !compareEqual(value, condition.Value)
	case ">", ">=", "<", "<=":
		return compareOrdered(value, condition.Value, condition.Operator)
	case "~=":
		return strings.Contains(strings.ToLower(value), strings.ToLower(condition.Value))
	default:
		return false
	}
}

// Matches checks if a record matches all conditions in the query
func (r *Record) Matches(query Query) bool {
	for _, condition := range query.Conditions {
		if !evalCondition(r, condition) {
			return false
		}
	}
	return true
}

// compareEqual compares numerically when both sides are numbers, otherwise as trimmed text
func compareEqual(a, b string) bool {
	if x, ok := toFloat64(a); ok {
		if y, ok := toFloat64(b); ok {
			return x == y
		}
	}
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

// compareOrdered is false unless both sides are numeric
func compareOrdered(a, b, op string) bool {
	x, ok := toFloat64(a)
	if !ok {
		return false
	}
	y, ok := toFloat64(b)
	if !ok {
		return false
	}

	switch op {
	case ">":
		return x > y
	case ">=":
		return x >= y
	case "<":
		return x < y
	case "<=":
		return x <= y
	default:
		return false
	}
}

// toFloat64 parses cell text such as "1,250" or "75%"
func toFloat64(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ApplyQuery filters records based on query conditions
func ApplyQuery(records []*Record, query Query) []*Record {
	results := make([]*Record, 0, len(records))

	for _, record := range records {
		if record.Matches(query) {
			results = append(results, record)
		}
	}

	// Offset適用
	if query.Offset >= len(results) {
		return []*Record{}
	}
	if query.Offset > 0 {
		results = results[query.Offset:]
	}

	// Limit適用
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results
}

// ValidateQuery validates query structure
func ValidateQuery(query Query) error {
	for i, cond := range query.Conditions {
		valid := false
		for _, op := range operators {
			if cond.Operator == op {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("%w: operator '%s' in condition %d", ErrInvalidCondition, cond.Operator, i)
		}

		if cond.Key == "" {
			return fmt.Errorf("%w: empty key in condition %d", ErrInvalidCondition, i)
		}
	}

	if query.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if query.Offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}

	return nil
}
