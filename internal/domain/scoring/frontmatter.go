package scoring

import (
	"strings"
	"unicode"
)

// ParseFrontmatter scans the metadata block at the very top of text.
//
// The block opens with a "---" line, holds at least one body line and closes
// with a "---" line that is itself newline-terminated. Trailing whitespace on
// either delimiter line is ignored. Body lines of the form "key: value" (key made
// of word characters, starting the line, value non-empty) become map entries and
// surrounding matching quotes are stripped from the value, so `name: ""` maps to
// an empty string. Later duplicates win. ok is false when no well-formed block
// is present.
func ParseFrontmatter(text string) (fields map[string]string, ok bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) < 3 || !isDelimiter(lines[0]) {
		return nil, false
	}

	// The last element of lines follows the final newline, so a closing
	// delimiter there is not newline-terminated.
	closing := -1
	for i := 2; i < len(lines)-1; i++ {
		if isDelimiter(lines[i]) {
			closing = i
			break
		}
	}
	if closing < 0 {
		return nil, false
	}

	fields = make(map[string]string)
	for _, line := range lines[1:closing] {
		if key, value, found := parseField(line); found {
			fields[key] = value
		}
	}
	return fields, true
}

func isDelimiter(line string) bool {
	return strings.TrimRightFunc(line, unicode.IsSpace) == frontmatterDelimiter
}

// parseField splits "key: value". The key must start the line and consist of
// letters, digits or underscores; the value is everything after the colon and
// any whitespace following it, and must not be empty.
func parseField(line string) (key, value string, ok bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return "", "", false
	}
	key = line[:colon]
	for _, r := range key {
		if !isWordChar(r) {
			return "", "", false
		}
	}
	value = strings.TrimLeftFunc(line[colon+1:], unicode.IsSpace)
	if value == "" {
		return "", "", false
	}
	return key, unquote(value), true
}

func isWordChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}
