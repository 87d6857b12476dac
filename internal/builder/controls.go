// Package builder implements the display-logic condition builder: the
// per-condition row editor with its type-directed value controls, and the
// session that loads a rule document into rows and collects them back.
//
// The builder is UI-agnostic. It models the modal's state explicitly (rows,
// selectors, value controls) and leaves rendering to the page; the page
// pushes user edits back through the Row setters and harvests a document
// with Session.Save.
package builder

import (
	"github.com/pollwright/surveywizard/internal/types"
)

// ControlKind discriminates the value-editing affordances a row can show.
type ControlKind int

const (
	// ControlText is a free-text input accepting a scalar or CSV list.
	ControlText ControlKind = iota
	// ControlCSV is a free-text input with list semantics, used for in/not_in
	// on choice-backed questions.
	ControlCSV
	// ControlSelect is a dropdown of known values with a leading blank option.
	ControlSelect
)

// Option is one entry of a select control.
type Option struct {
	Value string
	Label string
}

// Control describes the row's value control and its current content.
// For ControlSelect, Value is the selected option value ("" = blank).
type Control struct {
	Kind        ControlKind
	Options     []Option
	Placeholder string
	Value       string
}

// Selector is a matrix column, SBS group, or SBS row picker.
type Selector struct {
	Options  []Option
	Selected string
}

// Layout is the rendered shape of one condition row: which selectors are
// present and what value control it carries.
type Layout struct {
	Column *Selector // matrix single/multi
	Group  *Selector // side-by-side
	Row    *Selector // side-by-side
	Value  Control
	Hint   string
}

// Value-hint texts shown under a row, matching the affordance in play.
const (
	hintMatrix = "Matrix (single/multi): compares against the selected row value(s) for this column. Use IN/NOT IN for multiple row values."
	hintSBS    = "Matrix (side-by-side): compares the chosen value for the selected group in the selected row."
	hintYesNo  = "Yes/No: Yes = 1, No = 0."
	hintCSV    = "Use comma-separated values (e.g. 1,2,3). Compared against choice.value (or id:<pk> fallback)."
	hintChoice = "Choice-based: equals/not-equals compares against choice.value when set; otherwise uses id:<pk>."
	hintFree   = "Enter a value to compare. For lists, choose IN/NOT IN and enter comma-separated values (e.g. 1,2,3)."
)

// dispatch decides the row layout for a target question and operator.
// Checked in priority order; first match wins:
//
//  1. matrix single/multi with columns: column picker + free text
//  2. side-by-side matrix with groups and rows: group + row pickers + free text
//  3. yes/no: fixed Yes(1)/No(0) dropdown
//  4. choice-backed with choices, scalar operator: choice dropdown
//  5. choice-backed with choices, list operator: CSV text
//  6. everything else (no target, unknown type, no choices): free text
//
// prefill is the loaded condition value rendered as text; select controls
// keep it only when it matches an option.
func dispatch(q *types.Question, op types.Operator, prefill string, colKey, groupSlug, rowKey string) Layout {
	if q != nil && q.Type == types.QuestionMatrix && q.MatrixMode != types.MatrixSideBySide && len(q.MatrixColumns) > 0 {
		sel := &Selector{Selected: colKey}
		for _, col := range q.MatrixColumns {
			sel.Options = append(sel.Options, Option{Value: col.Key(), Label: col.DisplayLabel()})
		}
		return Layout{
			Column: retainSelection(sel),
			Value: Control{
				Kind:        ControlText,
				Placeholder: "e.g. 1 (row value) or 1,2,3",
				Value:       prefill,
			},
			Hint: hintMatrix,
		}
	}

	if q != nil && q.IsSideBySide() && len(q.SBSGroups) > 0 && len(q.MatrixRows) > 0 {
		group := &Selector{Selected: groupSlug}
		for _, g := range q.SBSGroups {
			slug := g.Slug
			if slug == "" {
				slug = g.Name
			}
			if slug == "" {
				continue
			}
			label := g.Name
			if label == "" {
				label = slug
			}
			group.Options = append(group.Options, Option{Value: slug, Label: label})
		}
		row := &Selector{Selected: rowKey}
		for _, r := range q.MatrixRows {
			row.Options = append(row.Options, Option{Value: r.Key(), Label: r.Label()})
		}
		return Layout{
			Group: retainSelection(group),
			Row:   retainSelection(row),
			Value: Control{
				Kind:        ControlText,
				Placeholder: "e.g. 2 (column value)",
				Value:       prefill,
			},
			Hint: hintSBS,
		}
	}

	if q != nil && q.Type == types.QuestionYesNo {
		value := ""
		if prefill == "1" || prefill == "0" {
			value = prefill
		}
		return Layout{
			Value: Control{
				Kind: ControlSelect,
				Options: []Option{
					{Value: "1", Label: "Yes"},
					{Value: "0", Label: "No"},
				},
				Value: value,
			},
			Hint: hintYesNo,
		}
	}

	if q != nil && q.Type.ChoiceBacked() && len(q.Choices) > 0 {
		if op.ListOperator() {
			return Layout{
				Value: Control{
					Kind:        ControlCSV,
					Placeholder: "e.g. 1,2,3",
					Value:       prefill,
				},
				Hint: hintCSV,
			}
		}

		ctl := Control{Kind: ControlSelect}
		for _, c := range q.Choices {
			ctl.Options = append(ctl.Options, Option{Value: c.Key(), Label: c.Label()})
		}
		for _, o := range ctl.Options {
			if prefill != "" && prefill == o.Value {
				ctl.Value = prefill
				break
			}
		}
		return Layout{Value: ctl, Hint: hintChoice}
	}

	return Layout{
		Value: Control{
			Kind:        ControlText,
			Placeholder: "e.g. 1 or 1,2,3",
			Value:       prefill,
		},
		Hint: hintFree,
	}
}

// retainSelection blanks a selector's selection when it no longer matches
// any option, the way a select element drops an unknown value.
func retainSelection(s *Selector) *Selector {
	if s.Selected == "" {
		return s
	}
	for _, o := range s.Options {
		if o.Value == s.Selected {
			return s
		}
	}
	s.Selected = ""
	return s
}
