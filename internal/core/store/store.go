// Package store persists survey catalogs, visibility rules and responses.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pollwright/surveywizard/internal/builder"
	"github.com/pollwright/surveywizard/internal/catalog"
	"github.com/pollwright/surveywizard/internal/logic"
	"github.com/pollwright/surveywizard/internal/types"
)

// Queries interface defines database operations needed by the store.
// Implemented by *db.Queries to allow query loading via LoadQueries().
type Queries interface {
	Get(name string, dest interface{}, args ...interface{}) error
	Select(name string, dest interface{}, args ...interface{}) error
	Exec(name string, args ...interface{}) (sql.Result, error)
}

// Store wraps named queries with survey-domain operations.
type Store struct {
	queries Queries
}

// New creates a store backed by the given query set.
func New(queries Queries) *Store {
	return &Store{queries: queries}
}

type surveyRow struct {
	ID           int64  `db:"id"`
	Title        string `db:"title"`
	Description  string `db:"description"`
	IsActive     bool   `db:"is_active"`
	PointsReward int    `db:"points_reward"`
}

type questionRow struct {
	ID              int64         `db:"id"`
	Code            string        `db:"code"`
	Text            string        `db:"text"`
	QuestionType    string        `db:"question_type"`
	MatrixMode      string        `db:"matrix_mode"`
	SortIndex       int           `db:"sort_index"`
	VisibilityRules string        `db:"visibility_rules"`
	NextQuestionID  sql.NullInt64 `db:"next_question_id"`
}

type choiceRow struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	Label      string `db:"label"`
	Value      string `db:"value"`
}

type matrixRowRow struct {
	ID         int64  `db:"id"`
	QuestionID int64  `db:"question_id"`
	Label      string `db:"label"`
	Value      string `db:"value"`
}

type matrixColumnRow struct {
	ID           int64  `db:"id"`
	QuestionID   int64  `db:"question_id"`
	Label        string `db:"label"`
	Value        string `db:"value"`
	SBSGroup     string `db:"sbs_group"`
	SBSGroupSlug string `db:"sbs_group_slug"`
}

// Survey is the header the wizard page shows above the question list.
type Survey struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	IsActive     bool   `json:"is_active"`
	PointsReward int    `json:"points_reward"`
}

// GetSurvey loads one survey header. Returns sql.ErrNoRows for unknown IDs.
func (s *Store) GetSurvey(surveyID int64) (*Survey, error) {
	var row surveyRow
	if err := s.queries.Get("get-survey", &row, surveyID); err != nil {
		return nil, err
	}
	return &Survey{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		IsActive:     row.IsActive,
		PointsReward: row.PointsReward,
	}, nil
}

// LoadCatalog assembles the question catalog for a survey from four queries:
// questions plus their choices, matrix rows and matrix columns. Side-by-side
// groups carry their stored slugs; empty slugs are filled in by catalog.New.
func (s *Store) LoadCatalog(surveyID int64) (*catalog.Catalog, error) {
	var qrows []questionRow
	if err := s.queries.Select("list-questions", &qrows, surveyID); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}

	var crows []choiceRow
	if err := s.queries.Select("list-choices", &crows, surveyID); err != nil {
		return nil, fmt.Errorf("failed to list choices: %w", err)
	}

	var mrows []matrixRowRow
	if err := s.queries.Select("list-matrix-rows", &mrows, surveyID); err != nil {
		return nil, fmt.Errorf("failed to list matrix rows: %w", err)
	}

	var mcols []matrixColumnRow
	if err := s.queries.Select("list-matrix-columns", &mcols, surveyID); err != nil {
		return nil, fmt.Errorf("failed to list matrix columns: %w", err)
	}

	choicesByQ := make(map[int64][]types.Choice)
	for _, c := range crows {
		choicesByQ[c.QuestionID] = append(choicesByQ[c.QuestionID], types.Choice{
			ID:    c.ID,
			Text:  c.Label,
			Value: c.Value,
		})
	}

	rowsByQ := make(map[int64][]types.MatrixRow)
	for _, r := range mrows {
		rowsByQ[r.QuestionID] = append(rowsByQ[r.QuestionID], types.MatrixRow{
			ID:    r.ID,
			Text:  r.Label,
			Value: r.Value,
		})
	}

	// Stored slugs are authoritative: conditions persisted against a custom
	// slug must keep resolving, so groups are assembled here rather than
	// re-derived from column group names. Columns with an empty stored slug
	// fall back to derivation in catalog.New.
	colsByQ := make(map[int64][]types.MatrixColumn)
	groupsByQ := make(map[int64][]types.SBSGroup)
	seenGroup := make(map[int64]map[string]bool)
	for _, c := range mcols {
		colsByQ[c.QuestionID] = append(colsByQ[c.QuestionID], types.MatrixColumn{
			ID:    c.ID,
			Label: c.Label,
			Value: c.Value,
			Group: c.SBSGroup,
		})
		if c.SBSGroup == "" {
			continue
		}
		if seenGroup[c.QuestionID] == nil {
			seenGroup[c.QuestionID] = make(map[string]bool)
		}
		if seenGroup[c.QuestionID][c.SBSGroup] {
			continue
		}
		seenGroup[c.QuestionID][c.SBSGroup] = true
		groupsByQ[c.QuestionID] = append(groupsByQ[c.QuestionID], types.SBSGroup{
			Name: c.SBSGroup,
			Slug: c.SBSGroupSlug,
		})
	}

	questions := make([]types.Question, 0, len(qrows))
	for _, q := range qrows {
		question := types.Question{
			ID:              q.ID,
			Code:            q.Code,
			Text:            q.Text,
			SortIndex:       q.SortIndex,
			Type:            types.QuestionType(q.QuestionType),
			MatrixMode:      types.MatrixMode(q.MatrixMode),
			Choices:         choicesByQ[q.ID],
			MatrixRows:      rowsByQ[q.ID],
			MatrixColumns:   colsByQ[q.ID],
			SBSGroups:       groupsByQ[q.ID],
			VisibilityRules: q.VisibilityRules,
		}
		if q.NextQuestionID.Valid {
			question.NextQuestionID = q.NextQuestionID.Int64
		}
		questions = append(questions, question)
	}

	return catalog.New(questions), nil
}

// VisibilityField exposes one question's stored rule text as a builder field
// store. The builder reads and writes through the DefaultFieldName key only.
type VisibilityField struct {
	queries    Queries
	questionID int64
}

// Field returns a builder field store bound to the given question.
func (s *Store) Field(questionID int64) *VisibilityField {
	return &VisibilityField{queries: s.queries, questionID: questionID}
}

// FieldText returns the stored rule text for the bound question.
func (f *VisibilityField) FieldText(name string) (string, bool) {
	if name != builder.DefaultFieldName {
		return "", false
	}
	var text string
	if err := f.queries.Get("get-visibility-rules", &text, f.questionID); err != nil {
		return "", false
	}
	return text, true
}

// SetFieldText writes the rule text for the bound question.
func (f *VisibilityField) SetFieldText(name, text string) error {
	if name != builder.DefaultFieldName {
		return fmt.Errorf("unknown field: %s", name)
	}
	res, err := f.queries.Exec("set-visibility-rules", text, f.questionID)
	if err != nil {
		return fmt.Errorf("failed to update visibility rules: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("question %d not found", f.questionID)
	}
	return nil
}

// SetNextQuestion updates a question's explicit routing target.
// Zero nextID clears the target, falling back to linear order.
func (s *Store) SetNextQuestion(questionID, nextID int64) error {
	var target interface{}
	if nextID != 0 {
		target = nextID
	}
	res, err := s.queries.Exec("set-next-question", target, questionID)
	if err != nil {
		return fmt.Errorf("failed to set next question: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("question %d not found", questionID)
	}
	return nil
}

// Reorder rewrites sort indexes to match the given question ID order.
// Gaps of 10 leave room for manual insertion between questions.
func (s *Store) Reorder(ids []int64) error {
	for i, id := range ids {
		if _, err := s.queries.Exec("set-sort-index", (i+1)*10, id); err != nil {
			return fmt.Errorf("failed to reorder question %d: %w", id, err)
		}
	}
	return nil
}

// AddChoices appends bulk-parsed choice entries to a question, continuing
// from the current maximum sort index.
func (s *Store) AddChoices(questionID int64, entries []builder.BulkEntry) error {
	var maxSort int
	if err := s.queries.Get("max-choice-sort-index", &maxSort, questionID); err != nil {
		return fmt.Errorf("failed to read choice sort index: %w", err)
	}
	for i, e := range entries {
		if _, err := s.queries.Exec("insert-choice", questionID, e.Label, e.Value, maxSort+i+1); err != nil {
			return fmt.Errorf("failed to insert choice %q: %w", e.Label, err)
		}
	}
	return nil
}

// RecordAnswer stores one answered value under a submission.
// answerKey is the composite question key the value was collected for.
func (s *Store) RecordAnswer(submissionID types.SubmissionID, questionID int64, answerKey, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.queries.Exec("insert-response", string(submissionID), questionID, answerKey, value, now); err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}

// LoadAnswers rebuilds the evaluation answer map for a submission.
// Repeated keys accumulate into lists, matching multi-select semantics.
func (s *Store) LoadAnswers(submissionID types.SubmissionID) (logic.Answers, error) {
	var rows []struct {
		QuestionID int64  `db:"question_id"`
		AnswerKey  string `db:"answer_key"`
		Value      string `db:"value"`
	}
	if err := s.queries.Select("list-responses-by-submission", &rows, string(submissionID)); err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	answers := make(logic.Answers)
	for _, r := range rows {
		answers.Add(r.AnswerKey, r.Value)
	}
	return answers, nil
}
