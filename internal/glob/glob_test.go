package glob_test

import (
	"testing"

	"github.com/jpl-au/docshell/internal/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"docs/readme.md", "docs/readme.md", true},
		{"docs/*.md", "docs/readme.md", true},
		{"docs/*.md", "docs/api/readme.md", false},
		{"docs/**", "docs/api/v2/readme.md", true},
		{"docs/**", "notes/readme.md", false},
		{"**/readme.md", "docs/api/readme.md", true},
		{"docs/**/endpoints.md", "docs/api/v2/endpoints.md", true},
		{"*.md", "readme.md", true},
		{"*.md", "docs/readme.md", true}, // filename fallback
		{"*.txt", "docs/readme.md", false},
		{"rea?me.md", "readme.md", true},
	}
	for _, tt := range tests {
		got, err := glob.Match(tt.pattern, tt.path)
		require.NoError(t, err, "pattern %q", tt.pattern)
		assert.Equal(t, tt.want, got, "Match(%q, %q)", tt.pattern, tt.path)
	}
}

func TestMatch_BadPattern(t *testing.T) {
	_, err := glob.Match("[unclosed", "anything")
	assert.Error(t, err)
}

func TestMeta(t *testing.T) {
	assert.True(t, glob.Meta("docs/*.md"))
	assert.True(t, glob.Meta("docs/**"))
	assert.True(t, glob.Meta("rea?me.md"))
	assert.False(t, glob.Meta("docs/readme.md"))
	assert.False(t, glob.Meta("docs/"))
}
