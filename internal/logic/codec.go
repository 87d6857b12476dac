package logic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pollwright/surveywizard/internal/types"
)

/*
 * Rule document codec.
 *
 * Maps between the persisted visibility-rules text and the in-memory
 * document (mode + ordered condition list). The persisted forms:
 *
 *   ""                                   no logic (canonical empty form)
 *   {"all":[{q,op,val}, ...]}            every condition must hold
 *   {"any":[{q,op,val}, ...]}            at least one must hold
 *   {"q":..,"op":..,"val":..}            legacy single-condition shorthand
 *
 * Decoding is tolerant of hand-edited input: non-object JSON and wrapper
 * keys holding non-arrays degrade to an empty document, and "any" wins when
 * both wrapper keys coexist. Only text that fails to parse as JSON at all is
 * an error; the caller resets to an empty session and the unparsable text is
 * discarded.
 */

// Document is one question's display logic: a combination mode and an
// ordered condition list. The zero Document means "always visible".
type Document struct {
	Mode       types.Mode
	Conditions []types.Condition
}

// Empty reports whether the document carries no conditions.
func (d Document) Empty() bool { return len(d.Conditions) == 0 }

// EmptyDocument returns the canonical empty document.
func EmptyDocument() Document {
	return Document{Mode: types.ModeAll}
}

// Decode parses raw field text into a Document.
//
// Empty or whitespace-only text is the empty document, not an error.
// Invalid JSON returns ErrMalformedDocument.
func Decode(text string) (Document, error) {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return EmptyDocument(), nil
	}

	var node any
	if err := json.Unmarshal([]byte(raw), &node); err != nil {
		return Document{}, fmt.Errorf("%w: %v", types.ErrMalformedDocument, err)
	}

	obj, ok := node.(map[string]any)
	if !ok {
		// Valid JSON but not an object (array, number, string): no logic.
		return EmptyDocument(), nil
	}

	if conds, ok := wrapperList(obj, "any"); ok {
		return Document{Mode: types.ModeAny, Conditions: conds}, nil
	}
	if conds, ok := wrapperList(obj, "all"); ok {
		return Document{Mode: types.ModeAll, Conditions: conds}, nil
	}

	// Legacy shorthand: a bare condition object is an implicit one-condition
	// "all" list.
	if _, hasQ := obj["q"]; hasQ {
		if _, hasOp := obj["op"]; hasOp {
			cond, err := decodeCondition(raw)
			if err != nil {
				return Document{}, err
			}
			return Document{Mode: types.ModeAll, Conditions: []types.Condition{cond}}, nil
		}
	}

	return EmptyDocument(), nil
}

// wrapperList extracts and decodes obj[key] when it holds an array.
// A wrapper key holding anything else is ignored, matching the editor's
// Array.isArray guards.
func wrapperList(obj map[string]any, key string) ([]types.Condition, bool) {
	node, ok := obj[key]
	if !ok {
		return nil, false
	}
	items, ok := node.([]any)
	if !ok {
		return nil, false
	}

	conds := make([]types.Condition, 0, len(items))
	for _, item := range items {
		encoded, err := json.Marshal(item)
		if err != nil {
			continue
		}
		cond, err := decodeCondition(string(encoded))
		if err != nil {
			// Unreadable clause: drop it, keep the rest of the document.
			continue
		}
		conds = append(conds, cond)
	}
	return conds, true
}

func decodeCondition(raw string) (types.Condition, error) {
	var cond types.Condition
	if err := json.Unmarshal([]byte(raw), &cond); err != nil {
		return types.Condition{}, fmt.Errorf("%w: %v", types.ErrMalformedDocument, err)
	}
	return cond, nil
}

// Encode serializes a Document back to field text.
//
// An empty condition list always yields "" regardless of mode; that is the
// canonical no-logic representation (never "{}"). Condition order is
// preserved.
func Encode(doc Document) (string, error) {
	if len(doc.Conditions) == 0 {
		return "", nil
	}

	mode := doc.Mode
	if mode != types.ModeAny {
		mode = types.ModeAll
	}

	out, err := json.Marshal(map[string][]types.Condition{
		string(mode): doc.Conditions,
	})
	if err != nil {
		return "", fmt.Errorf("encode visibility rules: %w", err)
	}
	return string(out), nil
}
