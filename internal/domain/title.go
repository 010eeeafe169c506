package domain

import (
	"path"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// acronymMaxLen is the longest all-caps word kept as an acronym (API, CI).
const acronymMaxLen = 3

// Title turns a document ID into a human readable heading:
// "Rules/secure-coding.md" -> "Secure Coding", "Rules/RULE_INDEX.md" -> "Rule Index",
// "Workflows/releaseAPIProcess.md" -> "Release API Process".
func Title(documentID string) string {
	stem := strings.TrimSuffix(path.Base(documentID), path.Ext(documentID))

	var words []string
	for _, w := range camelcase.Split(stem) {
		if !isWord(w) {
			continue
		}
		words = append(words, titleWord(w))
	}
	if len(words) == 0 {
		return stem
	}
	return strings.Join(words, " ")
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func titleWord(w string) string {
	if len(w) <= acronymMaxLen && strings.ToUpper(w) == w {
		return w
	}
	low := strings.ToLower(w)
	return strings.ToUpper(low[:1]) + low[1:]
}
