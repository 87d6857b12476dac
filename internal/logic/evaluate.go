package logic

import (
	"encoding/json"
	"strings"

	"github.com/pollwright/surveywizard/internal/types"
)

/*
 * Rule document evaluation.
 *
 * Decides whether a question is visible given the answers collected so far.
 * Evaluation runs on the raw stored JSON rather than the builder's flat
 * Document so that nested {"all":[{"any":[...]}]} wrappers in hand-edited
 * documents still evaluate, even though the builder only ever emits flat
 * ones.
 *
 * An empty document is always visible. A malformed document evaluates as
 * visible too: broken logic hides nothing, it is repaired in the builder.
 */

// Answers maps question references to collected answers. Values are scalars
// (string or float64) or []any for multi-answer questions. Keys follow the
// same code-else-id rule as condition references.
type Answers map[string]any

// Add records one answer, accumulating repeated keys into a list the way
// multi-choice responses arrive row by row.
func (a Answers) Add(ref string, val any) {
	existing, ok := a[ref]
	if !ok {
		a[ref] = val
		return
	}
	if list, isList := existing.([]any); isList {
		a[ref] = append(list, val)
		return
	}
	a[ref] = []any{existing, val}
}

// EvalDocument evaluates stored visibility-rule text against answers.
// Empty text is visible. Malformed JSON returns ErrMalformedDocument with
// visible=true so callers can fail open while reporting.
func EvalDocument(text string, answers Answers) (bool, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return true, nil
	}

	var node any
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return true, types.ErrMalformedDocument
	}
	return evalNode(node, answers), nil
}

// EvalConditions evaluates a decoded document. Used when the caller already
// holds a Document from the codec.
func EvalConditions(doc Document, answers Answers) bool {
	if doc.Empty() {
		return true
	}
	for _, cond := range doc.Conditions {
		matched := Compare(cond.Op, answers[cond.Q], conditionValue(cond.Val))
		if doc.Mode == types.ModeAny {
			if matched {
				return true
			}
		} else if !matched {
			return false
		}
	}
	return doc.Mode != types.ModeAny
}

// evalNode recursively evaluates a rules node: an all/any wrapper or a bare
// condition object. Anything unrecognizable is false.
func evalNode(node any, answers Answers) bool {
	obj, ok := node.(map[string]any)
	if !ok {
		return false
	}
	if len(obj) == 0 {
		return true
	}

	if items, ok := obj["all"].([]any); ok {
		for _, item := range items {
			if !evalNode(item, answers) {
				return false
			}
		}
		return true
	}
	if items, ok := obj["any"].([]any); ok {
		for _, item := range items {
			if evalNode(item, answers) {
				return true
			}
		}
		return false
	}

	return evalConditionNode(obj, answers)
}

func evalConditionNode(obj map[string]any, answers Answers) bool {
	ref, _ := obj["q"].(string)

	op := types.OpEq
	if s, ok := obj["op"].(string); ok && types.Operator(s).Valid() {
		op = types.Operator(s)
	}

	return Compare(op, answers[ref], obj["val"])
}

// conditionValue converts a codec Value into the generic form Compare
// expects.
func conditionValue(v types.Value) any {
	if v.IsList() {
		items := v.Items()
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out
	}
	return v.String()
}
