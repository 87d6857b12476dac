// Package types provides the domain models shared across the survey wizard
// components.
//
// The catalog types mirror the question descriptor payload the admin page
// embeds at load time; the builder and codec operate on these shapes only.
package types

import "strconv"

// QuestionType tags a question with its answer affordance. Unknown tags fall
// through to free-text handling.
type QuestionType string

const (
	QuestionSingleChoice QuestionType = "SINGLE_CHOICE"
	QuestionMultiChoice  QuestionType = "MULTI_CHOICE"
	QuestionDropdown     QuestionType = "DROPDOWN"
	QuestionRating       QuestionType = "RATING"
	QuestionImageChoice  QuestionType = "IMAGE_CHOICE"
	QuestionImageRating  QuestionType = "IMAGE_RATING"
	QuestionYesNo        QuestionType = "YESNO"
	QuestionMatrix       QuestionType = "MATRIX"
	QuestionNumber       QuestionType = "NUMBER"
	QuestionSlider       QuestionType = "SLIDER"
	QuestionText         QuestionType = "TEXT"
	QuestionDate         QuestionType = "DATE"
	QuestionPhotoUpload  QuestionType = "PHOTO_UPLOAD"
	QuestionPhotoMulti   QuestionType = "PHOTO_MULTI_UPLOAD"
	QuestionVideoUpload  QuestionType = "VIDEO_UPLOAD"
	QuestionAudioUpload  QuestionType = "AUDIO_UPLOAD"
)

// ChoiceBacked reports whether the type carries an ordered choice list that
// condition values can be picked from.
func (t QuestionType) ChoiceBacked() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultiChoice, QuestionDropdown,
		QuestionRating, QuestionImageChoice:
		return true
	default:
		return false
	}
}

// MatrixMode distinguishes the three matrix layouts.
type MatrixMode string

const (
	MatrixSingle     MatrixMode = "single"
	MatrixMulti      MatrixMode = "multi"
	MatrixSideBySide MatrixMode = "side_by_side"
)

// Choice is one selectable option of a choice-backed question.
// Value is the author-assigned comparison value; empty means unset.
type Choice struct {
	ID             int64  `json:"id"`
	Text           string `json:"text"`
	Value          string `json:"value,omitempty"`
	NextQuestionID int64  `json:"next_question_id,omitempty"`
}

// Key returns the stable comparison key for the choice: its assigned value
// when set, else the id:<pk> fallback.
func (c Choice) Key() string {
	if c.Value != "" {
		return c.Value
	}
	return "id:" + strconv.FormatInt(c.ID, 10)
}

// Label returns the display label, falling back to a synthetic one.
func (c Choice) Label() string {
	if c.Text != "" {
		return c.Text
	}
	return "Choice #" + strconv.FormatInt(c.ID, 10)
}

// MatrixColumn is one column of a matrix question. Group names a side-by-side
// group; empty outside side_by_side mode.
type MatrixColumn struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	Value     string `json:"value,omitempty"`
	InputType string `json:"input_type,omitempty"`
	Group     string `json:"group,omitempty"`
	Order     int    `json:"order,omitempty"`
	Required  bool   `json:"required,omitempty"`
}

// Key returns the column's comparison key (value, else id:<pk>).
func (c MatrixColumn) Key() string {
	if c.Value != "" {
		return c.Value
	}
	return "id:" + strconv.FormatInt(c.ID, 10)
}

// DisplayLabel returns the column label with the same fallbacks the admin
// page shows in the column selector.
func (c MatrixColumn) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	if c.Value != "" {
		return "Col " + c.Value
	}
	return "Column #" + strconv.FormatInt(c.ID, 10)
}

// MatrixRow is one row of a matrix question.
type MatrixRow struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Value    string `json:"value,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// Key returns the row's comparison key (value, else id:<pk>).
func (r MatrixRow) Key() string {
	if r.Value != "" {
		return r.Value
	}
	return "id:" + strconv.FormatInt(r.ID, 10)
}

// Label returns the display label, falling back to a synthetic one.
func (r MatrixRow) Label() string {
	if r.Text != "" {
		return r.Text
	}
	return "Row #" + strconv.FormatInt(r.ID, 10)
}

// SBSGroup is a named column group of a side-by-side matrix. Slug is the
// normalized form used inside composite question keys.
type SBSGroup struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Question is one catalog entry: a question eligible to be referenced by
// display-logic conditions. Read-only for the builder core.
type Question struct {
	ID             int64          `json:"id"`
	Code           string         `json:"code,omitempty"`
	Text           string         `json:"text"`
	SortIndex      int            `json:"sort_index"`
	Type           QuestionType   `json:"question_type"`
	MatrixMode     MatrixMode     `json:"matrix_mode,omitempty"`
	Choices        []Choice       `json:"choices,omitempty"`
	MatrixRows     []MatrixRow    `json:"matrix_rows,omitempty"`
	MatrixColumns  []MatrixColumn `json:"matrix_columns,omitempty"`
	SBSGroups      []SBSGroup     `json:"sbs_groups,omitempty"`
	HelperText     string         `json:"helper_text,omitempty"`
	Required       bool           `json:"required,omitempty"`
	NextQuestionID int64          `json:"next_question_id,omitempty"`

	// VisibilityRules is the raw stored rule document text. Populated by the
	// storage layer for routing/evaluation; absent from the builder's catalog
	// payload.
	VisibilityRules string `json:"visibility_rules,omitempty"`
}

// Ref returns the stable reference key for the question: its code when set,
// else the decimal id. Conditions refer to questions exclusively through
// this key.
func (q Question) Ref() string {
	if q.Code != "" {
		return q.Code
	}
	return strconv.FormatInt(q.ID, 10)
}

// IsSideBySide reports whether the question is a side-by-side matrix.
func (q Question) IsSideBySide() bool {
	return q.Type == QuestionMatrix && q.MatrixMode == MatrixSideBySide
}
