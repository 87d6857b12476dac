// Package catalog holds the in-memory question catalog the condition builder
// works against: every question of the survey being edited, with the type
// metadata (choices, matrix rows/columns, side-by-side groups) the row
// editor needs to offer value pickers.
//
// The catalog is read-only for the builder; it is built once per page load
// from the embedded payload (or from storage on the server side) and never
// mutated by an edit session.
package catalog

import (
	"sort"

	"github.com/pollwright/surveywizard/internal/logic"
	"github.com/pollwright/surveywizard/internal/types"
)

// Catalog is an immutable set of questions in survey payload order.
type Catalog struct {
	questions []*types.Question
	byRef     map[string]*types.Question
}

// New builds a catalog from question descriptors. Side-by-side questions
// lacking explicit group descriptors get them derived from their columns'
// group names, in column order. On duplicate references the earliest
// question wins, matching the admin page's first-match lookup.
func New(questions []types.Question) *Catalog {
	c := &Catalog{
		questions: make([]*types.Question, 0, len(questions)),
		byRef:     make(map[string]*types.Question, len(questions)),
	}
	for i := range questions {
		q := questions[i]
		if q.IsSideBySide() && len(q.SBSGroups) == 0 {
			q.SBSGroups = DeriveSBSGroups(q.MatrixColumns)
		}
		for gi, g := range q.SBSGroups {
			if g.Slug == "" {
				q.SBSGroups[gi].Slug = logic.SlugifyGroup(g.Name)
			}
		}
		p := &q
		c.questions = append(c.questions, p)
		if _, exists := c.byRef[q.Ref()]; !exists {
			c.byRef[q.Ref()] = p
		}
	}
	return c
}

// DeriveSBSGroups extracts the distinct, ordered group descriptors from a
// side-by-side matrix's columns.
func DeriveSBSGroups(cols []types.MatrixColumn) []types.SBSGroup {
	seen := make(map[string]bool)
	var groups []types.SBSGroup
	for _, col := range cols {
		if col.Group == "" || seen[col.Group] {
			continue
		}
		seen[col.Group] = true
		groups = append(groups, types.SBSGroup{
			Name: col.Group,
			Slug: logic.SlugifyGroup(col.Group),
		})
	}
	return groups
}

// Questions returns all catalog entries in payload order.
func (c *Catalog) Questions() []*types.Question {
	return c.questions
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int { return len(c.questions) }

// ByRef resolves a question reference (code, else decimal id).
func (c *Catalog) ByRef(ref string) (*types.Question, bool) {
	if ref == "" {
		return nil, false
	}
	q, ok := c.byRef[ref]
	return q, ok
}

// ByCode resolves a question by its assigned code only. Used to locate the
// question currently being edited, which is identified by its code field.
func (c *Catalog) ByCode(code string) (*types.Question, bool) {
	if code == "" {
		return nil, false
	}
	for _, q := range c.questions {
		if q.Code == code {
			return q, true
		}
	}
	return nil, false
}

// Eligible returns the questions a condition may target while editing
// current: those strictly earlier in survey order, sorted ascending by
// (sort index, id). A nil current question (new, unsaved) makes the whole
// catalog eligible in payload order.
func (c *Catalog) Eligible(current *types.Question) []*types.Question {
	if current == nil {
		out := make([]*types.Question, len(c.questions))
		copy(out, c.questions)
		return out
	}

	var out []*types.Question
	for _, q := range c.questions {
		if q.SortIndex < current.SortIndex {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortIndex != out[j].SortIndex {
			return out[i].SortIndex < out[j].SortIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}
