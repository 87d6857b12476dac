package builder

import (
	"github.com/pollwright/surveywizard/internal/catalog"
	"github.com/pollwright/surveywizard/internal/logic"
	"github.com/pollwright/surveywizard/internal/types"
)

/*
 * Condition row editor.
 *
 * One Row models one clause of the document being edited. A row re-renders
 * its value control whenever its question or operator changes, because both
 * decide which affordance applies (see dispatch). Changing the question
 * discards the matrix column / SBS group+row selections; changing only the
 * operator keeps them, so flipping eq to in does not wipe a chosen column.
 *
 * A switched control always starts blank: no value coercion between control
 * kinds is attempted. Prefill happens only when a loaded condition supplies
 * the value for the initial render.
 */

// Row is a single condition row of a builder session.
type Row struct {
	cat      *catalog.Catalog
	eligible map[string]bool

	questionRef string
	operator    types.Operator

	// Matrix scope selections, persisted across operator-driven re-renders.
	colKey    string
	groupSlug string
	rowKey    string

	layout Layout
}

// newRow builds a row, prefilled from cond when non-nil.
func newRow(cat *catalog.Catalog, eligible map[string]bool, cond *types.Condition) *Row {
	r := &Row{cat: cat, eligible: eligible, operator: types.OpEq}
	if cond == nil {
		r.render("")
		return r
	}

	if cond.Op.Valid() {
		r.operator = cond.Op
	}

	if cond.Q != "" {
		if ref, err := logic.ParseQuestionKey(cond.Q); err == nil {
			// A reference outside the eligible pool leaves the question
			// selector blank, like assigning an unknown value to a select.
			if eligible[ref.Base] {
				r.questionRef = ref.Base
			}
			r.colKey = ref.ColumnKey
			r.groupSlug = ref.GroupSlug
			r.rowKey = ref.RowKey
		}
	}

	r.render(cond.Val.String())
	return r
}

// render re-runs the dispatch and replaces the value control in place.
func (r *Row) render(prefill string) {
	q, _ := r.cat.ByRef(r.questionRef)
	r.layout = dispatch(q, r.operator, prefill, r.colKey, r.groupSlug, r.rowKey)
}

// SetQuestion changes the row's target question and re-renders with a blank
// value. Matrix scope selections are discarded. A reference outside the
// eligible pool clears the selector.
func (r *Row) SetQuestion(ref string) {
	if ref != "" && !r.eligible[ref] {
		ref = ""
	}
	r.questionRef = ref
	r.colKey = ""
	r.groupSlug = ""
	r.rowKey = ""
	r.render("")
}

// SetOperator changes the comparison operator and re-renders with a blank
// value. in/not_in flips choice-backed rows between dropdown and CSV input.
func (r *Row) SetOperator(op types.Operator) {
	if !op.Valid() {
		return
	}
	r.operator = op
	r.render("")
}

// SetValue records free-text input. Ignored while the value control is a
// dropdown.
func (r *Row) SetValue(raw string) {
	if r.layout.Value.Kind == ControlSelect {
		return
	}
	r.layout.Value.Value = raw
}

// SelectValue records a dropdown selection. An unknown option blanks it.
func (r *Row) SelectValue(optionValue string) {
	if r.layout.Value.Kind != ControlSelect {
		return
	}
	for _, o := range r.layout.Value.Options {
		if o.Value == optionValue {
			r.layout.Value.Value = optionValue
			return
		}
	}
	r.layout.Value.Value = ""
}

// SelectColumn records a matrix column choice.
func (r *Row) SelectColumn(key string) {
	if r.layout.Column == nil {
		return
	}
	r.colKey = key
	r.layout.Column.Selected = key
	retainSelection(r.layout.Column)
	r.colKey = r.layout.Column.Selected
}

// SelectGroup records a side-by-side group choice.
func (r *Row) SelectGroup(slug string) {
	if r.layout.Group == nil {
		return
	}
	r.groupSlug = slug
	r.layout.Group.Selected = slug
	retainSelection(r.layout.Group)
	r.groupSlug = r.layout.Group.Selected
}

// SelectRow records a side-by-side row choice.
func (r *Row) SelectRow(key string) {
	if r.layout.Row == nil {
		return
	}
	r.rowKey = key
	r.layout.Row.Selected = key
	retainSelection(r.layout.Row)
	r.rowKey = r.layout.Row.Selected
}

// QuestionRef returns the selected base question reference ("" = none).
func (r *Row) QuestionRef() string { return r.questionRef }

// Operator returns the row's comparison operator.
func (r *Row) Operator() types.Operator { return r.operator }

// Layout returns the row's rendered controls.
func (r *Row) Layout() Layout { return r.layout }

// Question resolves the row's target question in the catalog.
func (r *Row) Question() (*types.Question, bool) {
	return r.cat.ByRef(r.questionRef)
}

// Blank reports whether the row has no question selected and no value
// entered, i.e. an untouched seed row.
func (r *Row) Blank() bool {
	return r.questionRef == "" && r.layout.Value.Value == ""
}

// Condition harvests the row into a condition. ok is false when the row is
// incomplete: no question, a matrix target without a chosen column, a
// side-by-side target missing its group or row, or a blank value. Incomplete
// rows are omitted from the saved document.
func (r *Row) Condition() (types.Condition, bool) {
	if r.questionRef == "" {
		return types.Condition{}, false
	}

	raw := r.layout.Value.Value
	val := logic.NormalizeRawValue(raw)

	q, _ := r.cat.ByRef(r.questionRef)

	var ref logic.QuestionRef
	switch {
	case q != nil && q.Type == types.QuestionMatrix && q.MatrixMode != types.MatrixSideBySide:
		colKey := ""
		if r.layout.Column != nil {
			colKey = r.layout.Column.Selected
		}
		ref = logic.MatrixColRef(r.questionRef, colKey)
	case q != nil && q.IsSideBySide():
		groupSlug, rowKey := "", ""
		if r.layout.Group != nil {
			groupSlug = r.layout.Group.Selected
		}
		if r.layout.Row != nil {
			rowKey = r.layout.Row.Selected
		}
		ref = logic.SBSCellRef(r.questionRef, groupSlug, rowKey)
	default:
		ref = logic.PlainRef(r.questionRef)
	}

	if !ref.Complete() || val.IsEmpty() {
		return types.Condition{}, false
	}

	return types.Condition{Q: ref.Key(), Op: r.operator, Val: val}, true
}
