package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchFilter_Empty(t *testing.T) {
	var f searchFilter

	assert.Empty(t, f.where())
	assert.Empty(t, f.args)
}

func TestSearchFilter_ComposesConjunctively(t *testing.T) {
	var f searchFilter
	f.add("a = ?", 1)
	f.add("b = ?", "two")
	f.add("(c = ? OR d >= ?)", 3, 4)

	assert.Equal(t, " WHERE a = ? AND b = ? AND (c = ? OR d >= ?)", f.where())
	assert.Equal(t, []any{1, "two", 3, 4}, f.args)
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "python", "python"},
		{"percent", "100%", `100\%`},
		{"underscore", "snake_case", `snake\_case`},
		{"backslash", `a\b`, `a\\b`},
		{"mixed", `%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.input))
		})
	}
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%python%", likePattern("python"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
}
