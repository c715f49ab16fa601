package util

import (
	"regexp"
	"strings"
)

// Trailing high-school suffixes, tried in order; only the first hit is
// stripped. A name that is nothing but the suffix normalizes to "".
var hsSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|\s)HIGH SCHOOL$`),
	regexp.MustCompile(`(?:^|\s)H\.S\.$`),
	regexp.MustCompile(`(?:^|\s)HS$`),
	regexp.MustCompile(`(?:^|\s)H\.S$`),
}

var (
	reSaint      = regexp.MustCompile(`\bST\.?\s+`)
	rePossessive = regexp.MustCompile(`'S\b`)
	rePunct      = regexp.MustCompile(`[.,']`)
	reParenTail  = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// NormalizeName produces the matching key for a raw school name. The key
// is lossy and never shown to users. Idempotent: re-normalizing a key
// yields the same key. The rewrite order matters and must not change.
func NormalizeName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	if s == "" {
		return ""
	}

	for _, suffix := range hsSuffixes {
		if suffix.MatchString(s) {
			s = suffix.ReplaceAllString(s, "")
			break
		}
	}

	// "ST"/"ST." as a standalone word means Saint; "WEST" stays intact.
	s = reSaint.ReplaceAllString(s, "SAINT ")

	// "'S" goes as a unit so MARY'S keys the same as MARY.
	s = rePossessive.ReplaceAllString(s, "")
	s = rePunct.ReplaceAllString(s, "")

	s = reParenTail.ReplaceAllString(s, "")

	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func StringPtr(v string) *string {
	return &v
}

func IntPtr(v int) *int {
	return &v
}
