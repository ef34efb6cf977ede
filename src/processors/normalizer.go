package processors

import (
	"regexp"
	"strings"
)

// Text and identifier normalization for entity reconciliation. All functions
// are pure and total: bad input degrades to "" instead of erroring.

var (
	nonAlnumSpaceRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	nonAlnumRe      = regexp.MustCompile(`[^a-zA-Z0-9]`)

	// Word-boundary expansions of common business-name abbreviations.
	businessTerms = []struct {
		re          *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`\bPVT\b`), "PRIVATE"},
		{regexp.MustCompile(`\bLTD\b`), "LIMITED"},
		{regexp.MustCompile(`\bCO\b`), "COMPANY"},
	}

	// Literal variants that spreadsheet round-trips produce for missing cells.
	nullLikeLiterals = map[string]bool{"": true, "nan": true, "NaN": true, "None": true}
)

// IsNullLike reports whether a trimmed cell value is one of the literal
// variants that mean "missing".
func IsNullLike(s string) bool {
	return nullLikeLiterals[strings.TrimSpace(s)]
}

// SanitizeIdentifier canonicalizes a trade identifier code: trims whitespace
// and strips leading zeros. Null-like input, or a code that is all zeros,
// yields "" (missing). Idempotent.
func SanitizeIdentifier(text string) string {
	if IsNullLike(text) {
		return ""
	}
	return strings.TrimLeft(strings.TrimSpace(text), "0")
}

// CleanSpecialChars removes every character except letters, digits and
// whitespace, then trims.
func CleanSpecialChars(text string) string {
	return strings.TrimSpace(nonAlnumSpaceRe.ReplaceAllString(text, ""))
}

// CleanSpecialCharsSpaces removes every character except letters and digits,
// spaces included.
func CleanSpecialCharsSpaces(text string) string {
	return nonAlnumRe.ReplaceAllString(text, "")
}

// ExpandBusinessTerms uppercases a legal name and expands the fixed
// abbreviation table (PVT, LTD, CO) at word boundaries.
func ExpandBusinessTerms(text string) string {
	text = strings.ToUpper(text)
	for _, term := range businessTerms {
		text = term.re.ReplaceAllString(text, term.replacement)
	}
	return text
}

// FormattedName builds the compact registry matching key: abbreviations
// expanded, everything but letters and digits dropped, uppercased.
func FormattedName(text string) string {
	return strings.ToUpper(CleanSpecialCharsSpaces(ExpandBusinessTerms(text)))
}
