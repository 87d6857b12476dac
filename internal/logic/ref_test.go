package logic

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pollwright/surveywizard/internal/types"
)

func TestParseQuestionKey_Normal(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want QuestionRef
	}{
		{
			name: "plain code",
			key:  "Q1",
			want: PlainRef("Q1"),
		},
		{
			name: "plain numeric id",
			key:  "42",
			want: PlainRef("42"),
		},
		{
			name: "matrix column with value key",
			key:  "Q5::col::2",
			want: MatrixColRef("Q5", "2"),
		},
		{
			name: "matrix column with id fallback key",
			key:  "Q5::col::id:17",
			want: MatrixColRef("Q5", "id:17"),
		},
		{
			name: "side-by-side cell",
			key:  "Q7::sbs::group::satisfaction::row::1",
			want: SBSCellRef("Q7", "satisfaction", "1"),
		},
		{
			name: "side-by-side with id row key",
			key:  "Q7::sbs::group::usage-freq::row::id:9",
			want: SBSCellRef("Q7", "usage-freq", "id:9"),
		},
		{
			name: "sbs missing row yields empty row key",
			key:  "Q7::sbs::group::satisfaction",
			want: QuestionRef{Kind: RefSBSCell, Base: "Q7", GroupSlug: "satisfaction"},
		},
		{
			name: "sbs missing everything",
			key:  "Q7::sbs::",
			want: QuestionRef{Kind: RefSBSCell, Base: "Q7"},
		},
		{
			name: "col marker wins over sbs marker",
			key:  "Q7::col::a::sbs::group::g::row::r",
			want: MatrixColRef("Q7", "a::sbs::group::g::row::r"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuestionKey(tt.key)
			if err != nil {
				t.Fatalf("ParseQuestionKey() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseQuestionKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseQuestionKey_Empty(t *testing.T) {
	_, err := ParseQuestionKey("")
	if !errors.Is(err, types.ErrMalformedQuestionKey) {
		t.Errorf("ParseQuestionKey(\"\") error = %v, want ErrMalformedQuestionKey", err)
	}
}

func TestQuestionRefKey(t *testing.T) {
	tests := []struct {
		name string
		ref  QuestionRef
		want string
	}{
		{name: "plain", ref: PlainRef("Q1"), want: "Q1"},
		{name: "matrix column", ref: MatrixColRef("Q5", "id:3"), want: "Q5::col::id:3"},
		{name: "sbs cell", ref: SBSCellRef("Q7", "brand-a", "2"), want: "Q7::sbs::group::brand-a::row::2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuestionRefComplete(t *testing.T) {
	tests := []struct {
		name string
		ref  QuestionRef
		want bool
	}{
		{name: "plain complete", ref: PlainRef("Q1"), want: true},
		{name: "empty base", ref: PlainRef(""), want: false},
		{name: "matrix with column", ref: MatrixColRef("Q5", "1"), want: true},
		{name: "matrix without column", ref: MatrixColRef("Q5", ""), want: false},
		{name: "sbs complete", ref: SBSCellRef("Q7", "g", "r"), want: true},
		{name: "sbs missing group", ref: SBSCellRef("Q7", "", "r"), want: false},
		{name: "sbs missing row", ref: SBSCellRef("Q7", "g", ""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlugifyGroup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple word", in: "Satisfaction", want: "satisfaction"},
		{name: "spaces to hyphens", in: "Usage Frequency", want: "usage-frequency"},
		{name: "whitespace run collapses", in: "Brand   A", want: "brand-a"},
		{name: "non-word chars stripped", in: "Price ($/mo)", want: "price-mo"},
		{name: "leading and trailing space", in: "  Brand A  ", want: "brand-a"},
		{name: "underscores and digits kept", in: "group_2 name", want: "group_2-name"},
		{name: "empty", in: "", want: ""},
		{name: "only symbols", in: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SlugifyGroup(tt.in); got != tt.want {
				t.Errorf("SlugifyGroup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Property-based test: parse inverts format for complete refs
func TestQuestionKey_PropertyRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	ident := gen.RegexMatch(`[A-Za-z][A-Za-z0-9_]{0,8}`)

	properties.Property("plain refs round trip", prop.ForAll(
		func(base string) bool {
			got, err := ParseQuestionKey(PlainRef(base).Key())
			return err == nil && got == PlainRef(base)
		},
		ident,
	))

	properties.Property("matrix column refs round trip", prop.ForAll(
		func(base, col string) bool {
			ref := MatrixColRef(base, col)
			got, err := ParseQuestionKey(ref.Key())
			return err == nil && got == ref
		},
		ident,
		ident,
	))

	properties.Property("sbs cell refs round trip", prop.ForAll(
		func(base, group, row string) bool {
			ref := SBSCellRef(base, SlugifyGroup(group), row)
			got, err := ParseQuestionKey(ref.Key())
			return err == nil && got == ref
		},
		ident,
		ident,
		ident,
	))

	properties.TestingRun(t)
}
