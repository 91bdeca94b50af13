// Package textutils provides text normalization and matching helpers used by
// the categorizer and the interactive resolver.
package textutils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizePhrase lower-cases s, trims it and collapses internal runs of
// whitespace to a single space. It is the form in which learned phrases are
// stored in the keyword mapping.
func NormalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsWord reports whether phrase occurs in text as a whole-word,
// case-insensitive substring. An occurrence counts only when it is delimited
// on both sides by the text boundary or by a rune that is neither a letter nor
// a digit. Runs of whitespace in either argument compare equal to a single
// space. Empty text or an empty phrase never matches.
func ContainsWord(text, phrase string) bool {
	phrase = NormalizePhrase(phrase)
	text = NormalizePhrase(text)
	if phrase == "" || text == "" {
		return false
	}

	for offset := 0; offset <= len(text)-len(phrase); {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(phrase)
		if isBoundaryBefore(text, start) && isBoundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isBoundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func isBoundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
