// Package logic implements the display-logic engine: given a survey's
// declarative rule configuration and a snapshot of the current answers,
// it decides which questions are visible.
//
// Evaluation is total and pure. Every operator has a defined result for
// missing or wrong-typed answers, so a broken or partially-configured
// rule can never break the respondent-facing form; malformed
// configurations are caught by ValidateConfig at edit time instead.
package logic

import (
	"strings"

	"github.com/erhulee/insight-sub002/internal/types"
)

/*
 * Operator comparison logic.
 *
 * Implements the 12 condition operators with type-aware comparison rules
 * over JSON-shaped answer values (string, float64, bool, []any).
 *
 * Operators:
 *   - isEmpty/isNotEmpty: emptiness checks, no comparison value
 *   - equals/notEquals: scalar equality with numeric tolerance,
 *     element-wise equality for array answers
 *   - contains/notContains: substring for strings, membership for arrays
 *   - in/notIn: membership of the answer in the condition's value list
 *   - gt/gte/lt/lte: numeric ordering, both sides coerced to float64
 *
 * Missing answers reach Compare as nil and fall out naturally: empty for
 * the emptiness checks, false for everything else. Negated operators are
 * pure negations of their positives, so notEquals against a missing
 * answer is true.
 *
 * Why function-based: a switch over a closed operator set reads better
 * than 12 single-method interface implementations with minimal behavior
 * variation.
 */

// Compare applies op to the current answer and the condition's literal
// value. Never panics; unknown operators compare false.
func Compare(op types.Operator, answer, value any) bool {
	switch op {
	case types.OpIsEmpty:
		return isEmptyValue(answer)
	case types.OpIsNotEmpty:
		return !isEmptyValue(answer)
	case types.OpEquals:
		return compareEqual(answer, value)
	case types.OpNotEquals:
		return !compareEqual(answer, value)
	case types.OpContains:
		return compareContains(answer, value)
	case types.OpNotContains:
		return !compareContains(answer, value)
	case types.OpIn:
		return compareIn(answer, value)
	case types.OpNotIn:
		return !compareIn(answer, value)
	case types.OpGt:
		ord, ok := compareNumeric(answer, value)
		return ok && ord > 0
	case types.OpGte:
		ord, ok := compareNumeric(answer, value)
		return ok && ord >= 0
	case types.OpLt:
		ord, ok := compareNumeric(answer, value)
		return ok && ord < 0
	case types.OpLte:
		ord, ok := compareNumeric(answer, value)
		return ok && ord <= 0
	default:
		return false
	}
}

// compareEqual performs equality with numeric type tolerance
// (float64/int/int64 mixing from JSON) and element-wise array equality.
// An array answer is never equal to a scalar value, and vice versa.
func compareEqual(a, b any) bool {
	if as, aok := asSlice(a); aok {
		bs, bok := asSlice(b)
		if !bok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !compareEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if _, bok := asSlice(b); bok {
		return false
	}
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	return a == b
}

// compareContains checks substring containment for string answers and
// element membership for array answers. Other answer shapes compare false.
func compareContains(answer, value any) bool {
	if s, ok := answer.(string); ok {
		sub, ok := value.(string)
		if !ok {
			return false
		}
		return strings.Contains(s, sub)
	}
	if elems, ok := asSlice(answer); ok {
		for _, elem := range elems {
			if compareEqual(elem, value) {
				return true
			}
		}
		return false
	}
	return false
}

// compareIn checks membership of the answer in the condition's value
// list. For array answers, any element being a member suffices.
func compareIn(answer, value any) bool {
	set, ok := asSlice(value)
	if !ok {
		return false
	}
	if elems, ok := asSlice(answer); ok {
		for _, elem := range elems {
			if memberOf(elem, set) {
				return true
			}
		}
		return false
	}
	return memberOf(answer, set)
}

func memberOf(v any, set []any) bool {
	for _, elem := range set {
		if compareEqual(v, elem) {
			return true
		}
	}
	return false
}

// compareNumeric performs three-way numeric comparison (-1/0/1). Both
// sides are coerced leniently (numeric strings accepted); any failure
// reports not-comparable so ordering operators evaluate false instead of
// accidentally matching on the zero ordering.
func compareNumeric(a, b any) (int, bool) {
	na, oka := coerceNumber(a)
	nb, okb := coerceNumber(b)
	if !oka || !okb {
		return 0, false
	}
	switch {
	case na < nb:
		return -1, true
	case na > nb:
		return 1, true
	default:
		return 0, true
	}
}
