package logic

import (
	"strconv"
	"strings"

	"github.com/pollwright/surveywizard/internal/types"
)

/*
 * Operator comparison logic.
 *
 * Implements the 8 condition operators over collected answers. Answers
 * arrive as strings, numbers, or lists of either (multi-answer questions);
 * condition values arrive as strings or string lists from the codec, or as
 * raw JSON scalars when evaluating hand-edited documents.
 *
 * Numeric-looking strings are coerced to float64 on both sides so "3" == 3
 * holds, matching how the server compares stored choice values against
 * answers. Ordering operators require both sides numeric and are false
 * otherwise; they never apply to list answers.
 *
 * Why function-based: a switch over 8 operators is cleaner than 8 interface
 * implementations with minimal behavior variation.
 */

// Compare applies the operator to an actual answer and a condition value.
// actual may be nil (unanswered), a scalar, or a []any multi-answer list.
// val may be a scalar or a []any list.
func Compare(op types.Operator, actual, val any) bool {
	a := coerceScalar(actual)
	v := coerceScalar(val)

	if list, ok := a.([]any); ok {
		return compareListAnswer(op, list, v)
	}

	switch op {
	case types.OpEq:
		return scalarEqual(a, v)
	case types.OpNe:
		return !scalarEqual(a, v)
	case types.OpIn:
		set, ok := v.([]any)
		if !ok {
			return false
		}
		return containsEqual(set, a)
	case types.OpNotIn:
		set, ok := v.([]any)
		if !ok {
			return true
		}
		return !containsEqual(set, a)
	case types.OpGt:
		return compareNumeric(a, v, func(x, y float64) bool { return x > y })
	case types.OpGte:
		return compareNumeric(a, v, func(x, y float64) bool { return x >= y })
	case types.OpLt:
		return compareNumeric(a, v, func(x, y float64) bool { return x < y })
	case types.OpLte:
		return compareNumeric(a, v, func(x, y float64) bool { return x <= y })
	default:
		return false
	}
}

// compareListAnswer normalizes comparisons when the answer is a
// multi-answer list: eq/ne become membership tests, in/not_in become
// overlap tests. Ordering operators are meaningless on lists and are false.
func compareListAnswer(op types.Operator, answers []any, v any) bool {
	switch op {
	case types.OpEq:
		return containsEqual(answers, v)
	case types.OpNe:
		return !containsEqual(answers, v)
	case types.OpIn:
		set, ok := v.([]any)
		if !ok {
			return false
		}
		for _, a := range answers {
			if containsEqual(set, coerceScalar(a)) {
				return true
			}
		}
		return false
	case types.OpNotIn:
		set, ok := v.([]any)
		if !ok {
			return true
		}
		for _, a := range answers {
			if containsEqual(set, coerceScalar(a)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// containsEqual reports whether x equals any element of set under coerced
// equality.
func containsEqual(set []any, x any) bool {
	for _, elem := range set {
		if scalarEqual(coerceScalar(elem), x) {
			return true
		}
	}
	return false
}

// scalarEqual performs equality with numeric tolerance: both sides numeric
// compare as float64, otherwise plain interface equality.
func scalarEqual(a, b any) bool {
	if na, nb, ok := asNumbers(a, b); ok {
		return na == nb
	}
	return a == b
}

func compareNumeric(a, b any, cmp func(x, y float64) bool) bool {
	na, nb, ok := asNumbers(a, b)
	if !ok {
		return false
	}
	return cmp(na, nb)
}

// asNumbers attempts to convert both values to float64.
func asNumbers(a, b any) (float64, float64, bool) {
	na, oka := toFloat64(a)
	nb, okb := toFloat64(b)
	return na, nb, oka && okb
}

// toFloat64 converts numeric types from JSON unmarshaling or Go callers.
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

// coerceScalar converts numeric-looking strings to float64 and coerces each
// element of a list. Non-numeric strings and other types pass through.
func coerceScalar(x any) any {
	switch v := x.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return v
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = coerceScalar(s)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = coerceScalar(e)
		}
		return out
	default:
		return x
	}
}
