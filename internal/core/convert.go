package core

// convert.go coerces raw record values into PostgreSQL parameter types.
//
// Records arrive from two sources with different value shapes:
//   - JSON batches: numbers decode as float64, missing fields are nil
//   - CSV rows: every cell is a string, possibly with Excel artifacts
//
// The As* functions accept both shapes. Absent values (nil or empty
// string) produce pgtype values with Valid=false so optional columns
// insert as NULL.

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// timestampLayouts are the accepted hire datetime formats. RFC 3339 is
// what the JSON batches and CSV fixtures carry; the rest cover common
// spreadsheet exports.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// AsInt4 coerces a value to pgtype.Int4.
// Accepts Go integers, integral floats (JSON numbers), and digit strings.
// Returns an invalid Int4 for nil or empty string input.
func AsInt4(v any) (pgtype.Int4, error) {
	switch n := v.(type) {
	case nil:
		return pgtype.Int4{}, nil
	case int:
		return pgtype.Int4{Int32: int32(n), Valid: true}, nil
	case int32:
		return pgtype.Int4{Int32: n, Valid: true}, nil
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return pgtype.Int4{}, fmt.Errorf("integer out of range: %d", n)
		}
		return pgtype.Int4{Int32: int32(n), Valid: true}, nil
	case float64:
		if n != math.Trunc(n) {
			return pgtype.Int4{}, fmt.Errorf("must be an integer, got %v", n)
		}
		if n > math.MaxInt32 || n < math.MinInt32 {
			return pgtype.Int4{}, fmt.Errorf("integer out of range: %v", n)
		}
		return pgtype.Int4{Int32: int32(n), Valid: true}, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return pgtype.Int4{}, fmt.Errorf("must be an integer, got %q", n.String())
		}
		return AsInt4(i)
	case string:
		s := CleanCell(n)
		if s == "" {
			return pgtype.Int4{}, nil
		}
		i, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return pgtype.Int4{}, fmt.Errorf("must be an integer, got %q", s)
		}
		return pgtype.Int4{Int32: int32(i), Valid: true}, nil
	default:
		return pgtype.Int4{}, fmt.Errorf("must be an integer, got %T", v)
	}
}

// AsText coerces a value to a trimmed non-empty string.
func AsText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("must be a string, got %T", v)
	}
	s = CleanCell(s)
	if s == "" {
		return "", fmt.Errorf("must be a non-empty string")
	}
	return s, nil
}

// AsTimestamp coerces a value to pgtype.Timestamptz.
// Accepts time.Time and strings in the supported layouts.
// Returns an invalid Timestamptz for nil or empty string input.
func AsTimestamp(v any) (pgtype.Timestamptz, error) {
	switch t := v.(type) {
	case nil:
		return pgtype.Timestamptz{}, nil
	case time.Time:
		return pgtype.Timestamptz{Time: t, Valid: true}, nil
	case string:
		s := CleanCell(t)
		if s == "" {
			return pgtype.Timestamptz{}, nil
		}
		for _, layout := range timestampLayouts {
			parsed, err := time.Parse(layout, s)
			if err == nil {
				return pgtype.Timestamptz{Time: parsed, Valid: true}, nil
			}
		}
		return pgtype.Timestamptz{}, fmt.Errorf("invalid timestamp %q", s)
	default:
		return pgtype.Timestamptz{}, fmt.Errorf("invalid timestamp, got %T", v)
	}
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(CleanCell(h))] = i
	}
	return idx
}

// CleanCell removes common CSV artifacts from a cell value:
// trims whitespace, strips an Excel formula prefix (="..."), and
// removes surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}
