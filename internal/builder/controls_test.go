package builder

import (
	"testing"

	"github.com/pollwright/surveywizard/internal/types"
)

func matrixQuestion() *types.Question {
	return &types.Question{
		ID: 5, Code: "M1", Type: types.QuestionMatrix, MatrixMode: types.MatrixSingle,
		MatrixColumns: []types.MatrixColumn{
			{ID: 1, Label: "Morning", Value: "1"},
			{ID: 2, Label: "Evening"},
		},
		MatrixRows: []types.MatrixRow{{ID: 10, Text: "Mon", Value: "1"}},
	}
}

func sbsQuestion() *types.Question {
	return &types.Question{
		ID: 7, Code: "S1", Type: types.QuestionMatrix, MatrixMode: types.MatrixSideBySide,
		SBSGroups: []types.SBSGroup{
			{Name: "Satisfaction", Slug: "satisfaction"},
			{Name: "Usage", Slug: "usage"},
		},
		MatrixRows: []types.MatrixRow{
			{ID: 20, Text: "Brand A", Value: "1"},
			{ID: 21, Text: "Brand B"},
		},
	}
}

func choiceQuestion() *types.Question {
	return &types.Question{
		ID: 3, Code: "C1", Type: types.QuestionSingleChoice,
		Choices: []types.Choice{
			{ID: 30, Text: "Red", Value: "1"},
			{ID: 31, Text: "Blue"},
		},
	}
}

func TestDispatch_MatrixColumn(t *testing.T) {
	l := dispatch(matrixQuestion(), types.OpEq, "", "", "", "")

	if l.Column == nil {
		t.Fatal("matrix layout must carry a column selector")
	}
	if l.Group != nil || l.Row != nil {
		t.Error("matrix layout must not carry SBS selectors")
	}
	if len(l.Column.Options) != 2 {
		t.Fatalf("column options = %d, want 2", len(l.Column.Options))
	}
	if l.Column.Options[0].Value != "1" {
		t.Errorf("column 0 key = %q, want value key", l.Column.Options[0].Value)
	}
	if l.Column.Options[1].Value != "id:2" {
		t.Errorf("column 1 key = %q, want id fallback", l.Column.Options[1].Value)
	}
	if l.Value.Kind != ControlText {
		t.Errorf("value kind = %v, want free text", l.Value.Kind)
	}
}

func TestDispatch_MatrixWithoutColumnsFallsThrough(t *testing.T) {
	q := &types.Question{ID: 5, Code: "M1", Type: types.QuestionMatrix, MatrixMode: types.MatrixSingle}
	l := dispatch(q, types.OpEq, "", "", "", "")
	if l.Column != nil {
		t.Error("columnless matrix must not show a column selector")
	}
	if l.Value.Kind != ControlText {
		t.Errorf("value kind = %v, want free text", l.Value.Kind)
	}
}

func TestDispatch_SideBySide(t *testing.T) {
	l := dispatch(sbsQuestion(), types.OpEq, "", "", "satisfaction", "id:21")

	if l.Group == nil || l.Row == nil {
		t.Fatal("SBS layout must carry group and row selectors")
	}
	if l.Column != nil {
		t.Error("SBS layout must not carry a column selector")
	}
	if l.Group.Selected != "satisfaction" {
		t.Errorf("group selected = %q", l.Group.Selected)
	}
	if l.Row.Selected != "id:21" {
		t.Errorf("row selected = %q", l.Row.Selected)
	}
	if l.Row.Options[0].Value != "1" || l.Row.Options[1].Value != "id:21" {
		t.Errorf("row option keys = %q %q", l.Row.Options[0].Value, l.Row.Options[1].Value)
	}
}

func TestDispatch_UnknownSelectionBlanks(t *testing.T) {
	l := dispatch(matrixQuestion(), types.OpEq, "", "id:999", "", "")
	if l.Column.Selected != "" {
		t.Errorf("unknown column selection = %q, want blanked", l.Column.Selected)
	}
}

func TestDispatch_YesNo(t *testing.T) {
	q := &types.Question{ID: 2, Code: "Y1", Type: types.QuestionYesNo}

	l := dispatch(q, types.OpEq, "1", "", "", "")
	if l.Value.Kind != ControlSelect {
		t.Fatalf("value kind = %v, want select", l.Value.Kind)
	}
	if len(l.Value.Options) != 2 || l.Value.Options[0].Value != "1" || l.Value.Options[1].Value != "0" {
		t.Errorf("options = %+v, want Yes(1)/No(0)", l.Value.Options)
	}
	if l.Value.Value != "1" {
		t.Errorf("prefill = %q, want kept", l.Value.Value)
	}

	// Anything but 1/0 starts blank.
	l = dispatch(q, types.OpEq, "yes", "", "", "")
	if l.Value.Value != "" {
		t.Errorf("non-binary prefill = %q, want blank", l.Value.Value)
	}
}

func TestDispatch_ChoiceBacked(t *testing.T) {
	q := choiceQuestion()

	t.Run("scalar operator gets dropdown", func(t *testing.T) {
		l := dispatch(q, types.OpEq, "", "", "", "")
		if l.Value.Kind != ControlSelect {
			t.Fatalf("value kind = %v, want select", l.Value.Kind)
		}
		if l.Value.Options[0].Value != "1" || l.Value.Options[1].Value != "id:31" {
			t.Errorf("option keys = %q %q", l.Value.Options[0].Value, l.Value.Options[1].Value)
		}
	})

	t.Run("prefill kept only when it matches an option", func(t *testing.T) {
		l := dispatch(q, types.OpEq, "1", "", "", "")
		if l.Value.Value != "1" {
			t.Errorf("matching prefill = %q, want kept", l.Value.Value)
		}
		l = dispatch(q, types.OpEq, "7", "", "", "")
		if l.Value.Value != "" {
			t.Errorf("unknown prefill = %q, want blank", l.Value.Value)
		}
	})

	t.Run("list operator gets CSV input", func(t *testing.T) {
		l := dispatch(q, types.OpIn, "1,2", "", "", "")
		if l.Value.Kind != ControlCSV {
			t.Fatalf("value kind = %v, want CSV", l.Value.Kind)
		}
		if l.Value.Value != "1,2" {
			t.Errorf("prefill = %q, want kept", l.Value.Value)
		}
	})

	t.Run("choiceless question falls through to free text", func(t *testing.T) {
		bare := &types.Question{ID: 9, Code: "C2", Type: types.QuestionSingleChoice}
		l := dispatch(bare, types.OpEq, "", "", "", "")
		if l.Value.Kind != ControlText {
			t.Errorf("value kind = %v, want free text", l.Value.Kind)
		}
	})
}

func TestDispatch_FreeText(t *testing.T) {
	tests := []struct {
		name string
		q    *types.Question
	}{
		{name: "nil question", q: nil},
		{name: "text question", q: &types.Question{ID: 1, Type: types.QuestionText}},
		{name: "number question", q: &types.Question{ID: 1, Type: types.QuestionNumber}},
		{name: "unknown type", q: &types.Question{ID: 1, Type: types.QuestionType("FUTURE")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := dispatch(tt.q, types.OpEq, "x", "", "", "")
			if l.Value.Kind != ControlText {
				t.Errorf("value kind = %v, want free text", l.Value.Kind)
			}
			if l.Column != nil || l.Group != nil || l.Row != nil {
				t.Error("free-text layout must not carry selectors")
			}
			if l.Value.Value != "x" {
				t.Errorf("prefill = %q, want kept", l.Value.Value)
			}
		})
	}
}
