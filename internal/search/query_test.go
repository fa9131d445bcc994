package search

import (
	"reflect"
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []SearchToken
	}{
		{
			name:  "single word",
			query: "cat",
			want:  []SearchToken{{Text: "cat"}},
		},
		{
			name:  "multiple words",
			query: "cat chases dog",
			want:  []SearchToken{{Text: "cat"}, {Text: "chases"}, {Text: "dog"}},
		},
		{
			name:  "quoted phrase",
			query: `"cat chases"`,
			want:  []SearchToken{{Text: "cat chases", IsPhrase: true}},
		},
		{
			name:  "phrase then word",
			query: `"cat chases" dog`,
			want:  []SearchToken{{Text: "cat chases", IsPhrase: true}, {Text: "dog"}},
		},
		{
			name:  "word phrase word",
			query: `a "b c" d`,
			want:  []SearchToken{{Text: "a"}, {Text: "b c", IsPhrase: true}, {Text: "d"}},
		},
		{
			name:  "wildcards stay in word tokens",
			query: "cat* dog",
			want:  []SearchToken{{Text: "cat*"}, {Text: "dog"}},
		},
		{
			name:  "wildcards stay in phrase tokens",
			query: `"cat*" dog`,
			want:  []SearchToken{{Text: "cat*", IsPhrase: true}, {Text: "dog"}},
		},
		{
			name:  "empty query",
			query: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			query: "   \t ",
			want:  nil,
		},
		{
			name:  "unterminated quote is literal",
			query: `"cat dog`,
			want:  []SearchToken{{Text: `"cat`}, {Text: "dog"}},
		},
		{
			name:  "empty quotes do not form a phrase",
			query: `"" dog`,
			want:  []SearchToken{{Text: `""`}, {Text: "dog"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQuery(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseQuery(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
