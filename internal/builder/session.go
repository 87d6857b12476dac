package builder

import (
	"errors"
	"fmt"

	"github.com/pollwright/surveywizard/internal/catalog"
	"github.com/pollwright/surveywizard/internal/logic"
	"github.com/pollwright/surveywizard/internal/types"
)

// DefaultFieldName is the rules field edited when the triggering control
// names no other target.
const DefaultFieldName = "id_visibility_rules"

// FieldStore gives the session access to the hidden rules fields it edits.
// The page-backed implementation reads and writes form fields; the server
// side persists per-question columns.
type FieldStore interface {
	// FieldText returns the field's current text; ok is false when no such
	// field exists.
	FieldText(name string) (text string, ok bool)
	// SetFieldText replaces the field's text.
	SetFieldText(name, text string) error
}

// OpenRequest carries the trigger context of a builder open.
type OpenRequest struct {
	// TargetField names the rules field to edit; empty means DefaultFieldName.
	TargetField string
	// CurrentQuestionCode identifies the question being edited, for the
	// eligibility cutoff. Empty or unknown (a new, unsaved question) makes
	// the whole catalog eligible.
	CurrentQuestionCode string
}

// HeaderMode says which selector headers the condition table needs, derived
// from the matrix questions currently targeted by rows.
type HeaderMode int

const (
	HeaderNone   HeaderMode = iota
	HeaderMatrix            // "Column"
	HeaderSBS               // "Group" + "Row"
)

/*
 * Builder session.
 *
 * One Session is one modal open-to-close cycle. All state that the original
 * editor kept in free-floating module globals (target field, eligible pool,
 * current rows) lives here; event handlers get the session, mutate it
 * through methods, and the document is written exactly once, at Save.
 *
 * The condition model is explicit: Open renders loaded conditions into rows
 * (model -> controls), Save harvests rows back into conditions (controls ->
 * model). Nothing in between consults the field text.
 */

// Session edits one question's display logic against a fixed catalog.
type Session struct {
	id     types.SessionID
	cat    *catalog.Catalog
	fields FieldStore

	isOpen      bool
	targetField string
	eligible    []*types.Question
	eligibleSet map[string]bool
	mode        types.Mode
	rows        []*Row
}

// NewSession creates a closed session over a catalog and field store.
func NewSession(cat *catalog.Catalog, fields FieldStore) *Session {
	return &Session{
		id:     types.NewSessionID(),
		cat:    cat,
		fields: fields,
		mode:   types.ModeAll,
	}
}

// ID returns the session identifier.
func (s *Session) ID() types.SessionID { return s.id }

// IsOpen reports whether the session is currently open.
func (s *Session) IsOpen() bool { return s.isOpen }

// Open binds the target field, recomputes eligibility, loads the stored
// document into rows, and opens the session.
//
// A missing target field returns ErrMissingTargetField and the session stays
// closed. Malformed stored text returns ErrMalformedDocument but the session
// still opens on an empty document: the caller warns the user, and the
// broken text is gone unless they cancel.
func (s *Session) Open(req OpenRequest) error {
	field := req.TargetField
	if field == "" {
		field = DefaultFieldName
	}
	text, ok := s.fields.FieldText(field)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrMissingTargetField, field)
	}
	s.targetField = field

	var current *types.Question
	if req.CurrentQuestionCode != "" {
		current, _ = s.cat.ByCode(req.CurrentQuestionCode)
	}
	s.eligible = s.cat.Eligible(current)
	s.eligibleSet = make(map[string]bool, len(s.eligible))
	for _, q := range s.eligible {
		s.eligibleSet[q.Ref()] = true
	}

	doc, err := logic.Decode(text)
	if err != nil {
		s.reset()
		s.isOpen = true
		return err
	}

	s.mode = doc.Mode
	s.rows = s.rows[:0]
	if doc.Empty() {
		s.rows = append(s.rows, newRow(s.cat, s.eligibleSet, nil))
	} else {
		for i := range doc.Conditions {
			s.rows = append(s.rows, newRow(s.cat, s.eligibleSet, &doc.Conditions[i]))
		}
	}

	s.isOpen = true
	return nil
}

// reset returns the session to a single blank row and all-mode.
func (s *Session) reset() {
	s.mode = types.ModeAll
	s.rows = []*Row{newRow(s.cat, s.eligibleSet, nil)}
}

// EligibleQuestions returns the questions rows may target, earliest first.
func (s *Session) EligibleQuestions() []*types.Question {
	return s.eligible
}

// Mode returns the current combination mode.
func (s *Session) Mode() types.Mode { return s.mode }

// SetMode records the mode radio selection. Anything but "any" is "all".
func (s *Session) SetMode(mode types.Mode) {
	if mode == types.ModeAny {
		s.mode = types.ModeAny
		return
	}
	s.mode = types.ModeAll
}

// Rows returns the session's condition rows in order.
func (s *Session) Rows() []*Row { return s.rows }

// Row returns the i-th condition row.
func (s *Session) Row(i int) (*Row, error) {
	if i < 0 || i >= len(s.rows) {
		return nil, types.ErrRowOutOfRange
	}
	return s.rows[i], nil
}

// AddCondition appends one blank row. The mode is untouched.
func (s *Session) AddCondition() (*Row, error) {
	if !s.isOpen {
		return nil, types.ErrSessionClosed
	}
	row := newRow(s.cat, s.eligibleSet, nil)
	s.rows = append(s.rows, row)
	return row, nil
}

// RemoveRow deletes the i-th row.
func (s *Session) RemoveRow(i int) error {
	if !s.isOpen {
		return types.ErrSessionClosed
	}
	if i < 0 || i >= len(s.rows) {
		return types.ErrRowOutOfRange
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

// HeaderMode computes which selector headers the table currently needs.
// Any side-by-side target wins over single/multi matrix targets.
func (s *Session) HeaderMode() HeaderMode {
	mode := HeaderNone
	for _, r := range s.rows {
		q, ok := r.Question()
		if !ok || q.Type != types.QuestionMatrix {
			continue
		}
		if q.MatrixMode == types.MatrixSideBySide {
			return HeaderSBS
		}
		mode = HeaderMatrix
	}
	return mode
}

// IncompleteRows returns the indexes of non-blank rows that would be
// silently dropped by Save. Callers may warn before saving; Save itself
// never blocks on them.
func (s *Session) IncompleteRows() []int {
	var out []int
	for i, r := range s.rows {
		if r.Blank() {
			continue
		}
		if _, ok := r.Condition(); !ok {
			out = append(out, i)
		}
	}
	return out
}

// Clear wipes the stored document: the field is emptied immediately and the
// session resets to one blank row in all-mode. Callers must confirm with
// the user before invoking it.
func (s *Session) Clear() error {
	if !s.isOpen {
		return types.ErrSessionClosed
	}
	if err := s.fields.SetFieldText(s.targetField, ""); err != nil {
		return err
	}
	s.reset()
	return nil
}

// Save harvests every row, drops incomplete ones, writes the encoded
// document to the target field, and closes the session. When no complete
// rows remain the field is cleared to the canonical empty form. On encoding
// failure the field is left untouched and the session stays open.
func (s *Session) Save() (string, error) {
	if !s.isOpen {
		return "", types.ErrSessionClosed
	}

	doc := logic.Document{Mode: s.mode}
	for _, r := range s.rows {
		if cond, ok := r.Condition(); ok {
			doc.Conditions = append(doc.Conditions, cond)
		}
	}

	text, err := logic.Encode(doc)
	if err != nil {
		return "", err
	}
	if err := s.fields.SetFieldText(s.targetField, text); err != nil {
		return "", err
	}

	s.isOpen = false
	return text, nil
}

// Cancel discards all in-memory row edits and closes the session without
// touching the target field.
func (s *Session) Cancel() {
	s.isOpen = false
	s.rows = nil
}

// IsMissingTarget reports whether err is the missing-field open failure.
func IsMissingTarget(err error) bool {
	return errors.Is(err, types.ErrMissingTargetField)
}

// IsMalformedDocument reports whether err is the malformed-stored-text open
// warning.
func IsMalformedDocument(err error) bool {
	return errors.Is(err, types.ErrMalformedDocument)
}
