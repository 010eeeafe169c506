package scoring_test

import (
	"testing"

	"github.com/openkraft/govaudit/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontmatter_Valid(t *testing.T) {
	text := "---\nname: Security\ndescription: \"Secure coding rules\"\nauthor: 'platform'\nversion: 1.2\n---\n# Body\n"

	fields, ok := scoring.ParseFrontmatter(text)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"name":        "Security",
		"description": "Secure coding rules",
		"author":      "platform",
		"version":     "1.2",
	}, fields)
}

func TestParseFrontmatter_Missing(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no block", "# Title\n\nbody\n"},
		{"empty text", ""},
		{"block not at top", "\n---\nname: x\n---\n"},
		{"never closed", "---\nname: x\nauthor: y\n"},
		{"closing not newline terminated", "---\nname: x\n---"},
		{"empty block", "---\n---\nbody\n"},
		{"opening has trailing text", "--- yaml\nname: x\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, ok := scoring.ParseFrontmatter(tt.text)
			assert.False(t, ok)
			assert.Nil(t, fields)
		})
	}
}

func TestParseFrontmatter_DelimiterTrailingWhitespace(t *testing.T) {
	fields, ok := scoring.ParseFrontmatter("---  \nname: x\n--- \t\n")
	require.True(t, ok)
	assert.Equal(t, "x", fields["name"])
}

func TestParseFrontmatter_CRLF(t *testing.T) {
	fields, ok := scoring.ParseFrontmatter("---\r\nname: x\r\nversion: 2.0\r\n---\r\nbody\r\n")
	require.True(t, ok)
	assert.Equal(t, "x", fields["name"])
	assert.Equal(t, "2.0", fields["version"])
}

func TestParseFrontmatter_BlankBodyLine(t *testing.T) {
	fields, ok := scoring.ParseFrontmatter("---\n\n---\n")
	require.True(t, ok)
	assert.Empty(t, fields)
}

func TestParseFrontmatter_LineRules(t *testing.T) {
	text := "---\n" +
		"  indented: ignored\n" +
		"not a field\n" +
		"multi-word: ignored\n" +
		"description: a: b\n" +
		"name: first\n" +
		"name: second\n" +
		"author:\n" +
		"tags: \"mismatched'\n" +
		"owner: \"\"\n" +
		"---\n"

	fields, ok := scoring.ParseFrontmatter(text)
	require.True(t, ok)

	assert.NotContains(t, fields, "indented")
	assert.NotContains(t, fields, "  indented")
	assert.NotContains(t, fields, "multi-word")
	assert.Equal(t, "a: b", fields["description"])
	assert.Equal(t, "second", fields["name"], "later duplicates win")
	assert.NotContains(t, fields, "author", "empty value is not a field")
	assert.Equal(t, "\"mismatched'", fields["tags"], "only matching quotes are stripped")

	owner, present := fields["owner"]
	assert.True(t, present)
	assert.Empty(t, owner)
}

func TestParseFrontmatter_EmptyValueKeepsEarlierValue(t *testing.T) {
	fields, ok := scoring.ParseFrontmatter("---\nname: kept\nname:\n---\n")
	require.True(t, ok)
	assert.Equal(t, "kept", fields["name"])
}

func TestParseFrontmatter_StopsAtFirstClosingDelimiter(t *testing.T) {
	fields, ok := scoring.ParseFrontmatter("---\nname: x\n---\nauthor: y\n---\n")
	require.True(t, ok)
	assert.Equal(t, "x", fields["name"])
	assert.NotContains(t, fields, "author")
}
