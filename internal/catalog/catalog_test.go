package catalog

import (
	"testing"

	"github.com/pollwright/surveywizard/internal/types"
)

func fixtureQuestions() []types.Question {
	return []types.Question{
		{ID: 1, Code: "Q1", SortIndex: 10, Type: types.QuestionSingleChoice},
		{ID: 2, Code: "Q2", SortIndex: 20, Type: types.QuestionText},
		{ID: 3, SortIndex: 30, Type: types.QuestionYesNo},
		{ID: 4, Code: "Q4", SortIndex: 40, Type: types.QuestionMatrix, MatrixMode: types.MatrixSingle},
	}
}

func TestByRef(t *testing.T) {
	cat := New(fixtureQuestions())

	tests := []struct {
		name   string
		ref    string
		wantID int64
		wantOK bool
	}{
		{name: "by code", ref: "Q1", wantID: 1, wantOK: true},
		{name: "codeless question by id", ref: "3", wantID: 3, wantOK: true},
		{name: "unknown ref", ref: "NOPE", wantOK: false},
		{name: "empty ref", ref: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := cat.ByRef(tt.ref)
			if ok != tt.wantOK {
				t.Fatalf("ByRef(%q) ok = %v, want %v", tt.ref, ok, tt.wantOK)
			}
			if ok && q.ID != tt.wantID {
				t.Errorf("ByRef(%q) id = %d, want %d", tt.ref, q.ID, tt.wantID)
			}
		})
	}
}

func TestByRef_DuplicateFirstWins(t *testing.T) {
	cat := New([]types.Question{
		{ID: 1, Code: "DUP", SortIndex: 10},
		{ID: 2, Code: "DUP", SortIndex: 20},
	})
	q, ok := cat.ByRef("DUP")
	if !ok || q.ID != 1 {
		t.Errorf("ByRef(DUP) = %v, want earliest question", q)
	}
}

func TestByCode(t *testing.T) {
	cat := New(fixtureQuestions())

	if q, ok := cat.ByCode("Q2"); !ok || q.ID != 2 {
		t.Errorf("ByCode(Q2) = %v, %v", q, ok)
	}
	// Numeric ids never match by code.
	if _, ok := cat.ByCode("3"); ok {
		t.Error("ByCode(3) matched, want miss for codeless question")
	}
	if _, ok := cat.ByCode(""); ok {
		t.Error("ByCode(\"\") matched, want miss")
	}
}

func TestEligible(t *testing.T) {
	cat := New(fixtureQuestions())

	t.Run("strictly earlier questions only", func(t *testing.T) {
		current, _ := cat.ByRef("3")
		got := cat.Eligible(current)
		if len(got) != 2 {
			t.Fatalf("Eligible() len = %d, want 2", len(got))
		}
		if got[0].ID != 1 || got[1].ID != 2 {
			t.Errorf("Eligible() = [%d %d], want [1 2]", got[0].ID, got[1].ID)
		}
	})

	t.Run("same sort index excluded", func(t *testing.T) {
		current := &types.Question{ID: 99, SortIndex: 20}
		got := cat.Eligible(current)
		if len(got) != 1 || got[0].ID != 1 {
			t.Errorf("Eligible() = %v, want only Q1", got)
		}
	})

	t.Run("nil current returns whole catalog", func(t *testing.T) {
		got := cat.Eligible(nil)
		if len(got) != cat.Len() {
			t.Errorf("Eligible(nil) len = %d, want %d", len(got), cat.Len())
		}
	})

	t.Run("ties ordered by id", func(t *testing.T) {
		tied := New([]types.Question{
			{ID: 7, Code: "B", SortIndex: 10},
			{ID: 3, Code: "A", SortIndex: 10},
			{ID: 9, Code: "C", SortIndex: 50},
		})
		current, _ := tied.ByRef("C")
		got := tied.Eligible(current)
		if len(got) != 2 || got[0].ID != 3 || got[1].ID != 7 {
			t.Errorf("Eligible() = %v, want ids [3 7]", got)
		}
	})
}

func TestNew_DerivesSBSGroups(t *testing.T) {
	cat := New([]types.Question{
		{
			ID: 1, Code: "SBS", SortIndex: 10,
			Type: types.QuestionMatrix, MatrixMode: types.MatrixSideBySide,
			MatrixColumns: []types.MatrixColumn{
				{ID: 1, Label: "Low", Group: "Satisfaction"},
				{ID: 2, Label: "High", Group: "Satisfaction"},
				{ID: 3, Label: "Daily", Group: "Usage Frequency"},
			},
		},
	})

	q, _ := cat.ByRef("SBS")
	if len(q.SBSGroups) != 2 {
		t.Fatalf("derived %d groups, want 2", len(q.SBSGroups))
	}
	if q.SBSGroups[0].Slug != "satisfaction" || q.SBSGroups[1].Slug != "usage-frequency" {
		t.Errorf("slugs = %q %q", q.SBSGroups[0].Slug, q.SBSGroups[1].Slug)
	}
}

func TestNew_FillsMissingSlugs(t *testing.T) {
	cat := New([]types.Question{
		{
			ID: 1, Code: "SBS", SortIndex: 10,
			Type: types.QuestionMatrix, MatrixMode: types.MatrixSideBySide,
			SBSGroups: []types.SBSGroup{{Name: "Brand A"}, {Name: "Brand B", Slug: "custom"}},
		},
	})

	q, _ := cat.ByRef("SBS")
	if q.SBSGroups[0].Slug != "brand-a" {
		t.Errorf("missing slug filled as %q, want brand-a", q.SBSGroups[0].Slug)
	}
	if q.SBSGroups[1].Slug != "custom" {
		t.Errorf("explicit slug = %q, want custom preserved", q.SBSGroups[1].Slug)
	}
}

func TestDecodeCatalogPayload(t *testing.T) {
	payload := `[
		{
			"id": 1, "code": "Q1", "text": "Pick one", "sort_index": 10,
			"question_type": "SINGLE_CHOICE",
			"choices": [
				{"id": 11, "label": "Yes", "value": 1},
				{"id": 12, "text": "No", "value": "2"}
			]
		},
		{
			"id": 2, "code": "M1", "text": "Rate each", "sort_index": 20,
			"question_type": "MATRIX", "matrix_mode": "side_by_side",
			"matrix_rows": [{"id": 21, "label": "Row A", "value": 1}],
			"matrix_columns": [
				{"id": 31, "label": "Good", "value": 1, "group": "Quality"},
				{"id": 32, "label": "Cheap", "value": 1, "group": "Price"}
			]
		}
	]`

	cat, err := DecodeCatalogPayload([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeCatalogPayload() error = %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cat.Len())
	}

	q1, _ := cat.ByRef("Q1")
	if len(q1.Choices) != 2 {
		t.Fatalf("Q1 choices = %d, want 2", len(q1.Choices))
	}
	// label fallback and numeric value normalization
	if q1.Choices[0].Text != "Yes" || q1.Choices[0].Value != "1" {
		t.Errorf("choice 0 = %+v", q1.Choices[0])
	}
	if q1.Choices[1].Text != "No" || q1.Choices[1].Value != "2" {
		t.Errorf("choice 1 = %+v", q1.Choices[1])
	}

	m1, _ := cat.ByRef("M1")
	if m1.MatrixRows[0].Text != "Row A" || m1.MatrixRows[0].Value != "1" {
		t.Errorf("matrix row = %+v", m1.MatrixRows[0])
	}
	if len(m1.SBSGroups) != 2 || m1.SBSGroups[0].Slug != "quality" {
		t.Errorf("sbs groups = %+v", m1.SBSGroups)
	}
}

func TestDecodeCatalogPayload_Invalid(t *testing.T) {
	if _, err := DecodeCatalogPayload([]byte(`{"not":"an array"`)); err == nil {
		t.Error("expected error for invalid payload")
	}
}
