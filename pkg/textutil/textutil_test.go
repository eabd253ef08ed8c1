package textutil

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lithuanian title with punctuation",
			input: "AI Naujienos: GPT-5 Pristatymas!",
			want:  "ai-naujienos-gpt-5-pristatymas",
		},
		{
			name:  "already clean",
			input: "hello-world",
			want:  "hello-world",
		},
		{
			name:  "whitespace runs collapse",
			input: "  too   many \t spaces  ",
			want:  "too-many-spaces",
		},
		{
			name:  "repeated hyphens collapse",
			input: "a -- b --- c",
			want:  "a-b-c",
		},
		{
			name:  "leading and trailing hyphens trimmed",
			input: "---edge case---",
			want:  "edge-case",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "punctuation only",
			input: "!?!?",
			want:  "",
		},
	}

	valid := regexp.MustCompile(`^[a-z0-9_]+(-[a-z0-9_]+)*$`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.input)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.Regexp(t, valid, got)
			}
		})
	}
}

func TestHasMarkup(t *testing.T) {
	assert.True(t, HasMarkup("<p>hello</p>"))
	assert.True(t, HasMarkup("a < b and c > d"))
	assert.False(t, HasMarkup("plain text only"))
	assert.False(t, HasMarkup("unbalanced < only"))
	assert.False(t, HasMarkup(""))
}
