// Package logic implements the display-logic core: the question-key grammar,
// the rule document codec, condition value normalization, and rule
// evaluation against collected answers.
package logic

import (
	"strings"

	"github.com/pollwright/surveywizard/internal/types"
)

/*
 * Question key grammar.
 *
 * A condition's "q" field encodes its target in one of three forms:
 *
 *   REF                                      plain question
 *   REF::col::COLKEY                         matrix (single/multi) column
 *   REF::sbs::group::SLUG::row::ROWKEY       side-by-side matrix cell
 *
 * REF is the question's code (else decimal id), COLKEY/ROWKEY are the
 * column/row value-or-id:<pk> keys, SLUG is the normalized group name.
 *
 * The composite string format is preserved byte-for-byte for compatibility
 * with the persisted documents; this file is the only place that parses or
 * formats it. Everything else holds a QuestionRef.
 */

const (
	colMarker = "::col::"
	sbsMarker = "::sbs::"
)

// RefKind discriminates the three target encodings.
type RefKind int

const (
	RefPlain RefKind = iota
	RefMatrixCol
	RefSBSCell
)

// QuestionRef is the parsed form of a condition's question key.
// Base is always the bare question reference; the remaining fields are
// populated per Kind.
type QuestionRef struct {
	Kind      RefKind
	Base      string
	ColumnKey string // RefMatrixCol
	GroupSlug string // RefSBSCell
	RowKey    string // RefSBSCell
}

// PlainRef constructs a plain question reference.
func PlainRef(base string) QuestionRef {
	return QuestionRef{Kind: RefPlain, Base: base}
}

// MatrixColRef constructs a column-scoped matrix reference.
func MatrixColRef(base, columnKey string) QuestionRef {
	return QuestionRef{Kind: RefMatrixCol, Base: base, ColumnKey: columnKey}
}

// SBSCellRef constructs a side-by-side group+row reference.
func SBSCellRef(base, groupSlug, rowKey string) QuestionRef {
	return QuestionRef{Kind: RefSBSCell, Base: base, GroupSlug: groupSlug, RowKey: rowKey}
}

// ParseQuestionKey splits a stored question key into its parsed form.
//
// Parsing is lenient the way the admin editor is: missing sub-keys yield
// empty fields rather than errors, so a half-authored key still loads into
// the builder with its selectors unselected. Only an empty key is rejected.
func ParseQuestionKey(key string) (QuestionRef, error) {
	if key == "" {
		return QuestionRef{}, types.ErrMalformedQuestionKey
	}

	// ::col:: checked before ::sbs::, matching stored-document precedence.
	if idx := strings.Index(key, colMarker); idx >= 0 {
		return QuestionRef{
			Kind:      RefMatrixCol,
			Base:      key[:idx],
			ColumnKey: key[idx+len(colMarker):],
		}, nil
	}

	if idx := strings.Index(key, sbsMarker); idx >= 0 {
		ref := QuestionRef{Kind: RefSBSCell, Base: key[:idx]}
		segments := strings.Split(key[idx+len(sbsMarker):], "::")
		for i := 0; i+1 < len(segments); i += 2 {
			switch segments[i] {
			case "group":
				ref.GroupSlug = segments[i+1]
			case "row":
				ref.RowKey = segments[i+1]
			}
		}
		return ref, nil
	}

	return QuestionRef{Kind: RefPlain, Base: key}, nil
}

// Key formats the reference back into its stored string form.
func (r QuestionRef) Key() string {
	switch r.Kind {
	case RefMatrixCol:
		return r.Base + colMarker + r.ColumnKey
	case RefSBSCell:
		return r.Base + sbsMarker + "group::" + r.GroupSlug + "::row::" + r.RowKey
	default:
		return r.Base
	}
}

// Complete reports whether the reference carries every part its kind needs.
// An incomplete reference cannot be saved.
func (r QuestionRef) Complete() bool {
	if r.Base == "" {
		return false
	}
	switch r.Kind {
	case RefMatrixCol:
		return r.ColumnKey != ""
	case RefSBSCell:
		return r.GroupSlug != "" && r.RowKey != ""
	default:
		return true
	}
}

// SlugifyGroup normalizes a side-by-side group name into the slug used in
// composite keys: lowercased, whitespace runs collapsed to single hyphens,
// non-word characters stripped.
func SlugifyGroup(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lower))
	pendingHyphen := false
	for _, r := range lower {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if b.Len() > 0 {
				pendingHyphen = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-':
			if pendingHyphen {
				b.WriteByte('-')
				pendingHyphen = false
			}
			b.WriteRune(r)
		default:
			// non-word character, stripped
		}
	}
	return b.String()
}
