package logic

import (
	"strconv"
	"strings"
)

/*
 * Answer value helpers.
 *
 * Answers arrive as JSON-shaped values: string, float64, bool, []any.
 * Go callers occasionally hand the engine int or []string instead, so
 * the helpers normalize both families. Null and missing answers are the
 * same thing here: nil.
 */

// isEmptyValue reports whether an answer counts as empty: nil, the empty
// string, or an empty array. Numbers and booleans are never empty (zero
// is an answer).
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}

// asSlice normalizes array-shaped answers to []any.
// []string appears when callers build answers in Go rather than
// decoding them from JSON.
func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// asNumbers attempts strict numeric conversion of both values for
// equality comparison. Strings are not numbers here: "5" must not equal
// the rating 5.
func asNumbers(a, b any) (float64, float64, bool) {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

// toFloat64 converts strictly numeric types to float64.
// Handles float64 from JSON plus int/int64 from Go callers.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// coerceNumber converts a value to float64 for ordering comparisons.
// Unlike toFloat64 it accepts numeric strings (a text input holding an
// age). Whitespace-only and non-numeric strings fail.
func coerceNumber(v any) (float64, bool) {
	if f, ok := toFloat64(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
