package builder

import (
	"reflect"
	"testing"
)

func TestParseBulkEntries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []BulkEntry
	}{
		{
			name: "comma separated",
			raw:  "Red, Green, Blue",
			want: []BulkEntry{{"Red", "1"}, {"Green", "2"}, {"Blue", "3"}},
		},
		{
			name: "newline separated",
			raw:  "Red\nGreen\nBlue",
			want: []BulkEntry{{"Red", "1"}, {"Green", "2"}, {"Blue", "3"}},
		},
		{
			name: "windows line endings",
			raw:  "Red\r\nGreen",
			want: []BulkEntry{{"Red", "1"}, {"Green", "2"}},
		},
		{
			name: "explicit numeric values",
			raw:  "Low|10\nHigh|90",
			want: []BulkEntry{{"Low", "10"}, {"High", "90"}},
		},
		{
			name: "non-numeric value ignored",
			raw:  "Red|crimson\nGreen",
			want: []BulkEntry{{"Red", "1"}, {"Green", "2"}},
		},
		{
			name: "mixed explicit and auto",
			raw:  "A\nB|7\nC",
			want: []BulkEntry{{"A", "1"}, {"B", "7"}, {"C", "3"}},
		},
		{
			name: "blank segments dropped",
			raw:  "Red,,Blue,",
			want: []BulkEntry{{"Red", "1"}, {"Blue", "2"}},
		},
		{
			name: "whitespace trimmed",
			raw:  "  Red | 5 ",
			want: []BulkEntry{{"Red", "5"}},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "  \n \n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBulkEntries(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBulkEntries(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
