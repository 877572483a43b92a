package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/layout"
)

var (
	leadingStopword = regexp.MustCompile(`^(the|a|an|it|this|that|which|is|are|was|were)(?:[^\p{L}\p{N}_]|$)`)
	wordChar        = regexp.MustCompile(`[\p{L}\p{N}_]`)
	numberedSection = regexp.MustCompile(`(?i)^(chapter|section|part|article|appendix)\s+(\d+(\.\d+)*)([a-z.\-]*)$`)
)

// IsBold reports whether the span's bold flag bit is set.
func IsBold(s layout.Span) bool {
	return s.Flags.Has(layout.FlagBold)
}

// IsAllCaps reports whether text is upper case and has 2 to 8 words.
// Single words are excluded so acronyms and labels do not qualify.
func IsAllCaps(text string) bool {
	if !isUpper(text) {
		return false
	}
	n := len(strings.Fields(text))
	return n > 1 && n <= 8
}

// isUpper requires at least one cased rune and no lower or title case rune.
func isUpper(text string) bool {
	cased := false
	for _, r := range text {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}

// LooksLikeHeadingProse is the heading-shape filter shared by the scorer and
// the title extractor.
func LooksLikeHeadingProse(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if n := utf8.RuneCountInString(text); n < 3 || n > 150 {
		return false
	}
	if strings.Count(text, " ") > 20 {
		return false
	}
	if leadingStopword.MatchString(strings.ToLower(text)) {
		return false
	}
	if strings.Count(text, ".") > 1 || strings.Count(text, ",") > 1 {
		return false
	}
	return wordChar.MatchString(text)
}

// MatchesNumberedSection reports whether text is exactly a numbered section
// label such as "Chapter 3.1" or "Appendix 2a".
func MatchesNumberedSection(text string) bool {
	return numberedSection.MatchString(strings.TrimSpace(text))
}
