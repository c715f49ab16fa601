package standardize

import (
	"regexp"
	"strings"

	"schoolmap/internal"
)

// Ordered rule table; the first marker hit decides the type, so e.g.
// "Central Catholic High School" is private, not public.
var typeRules = []struct {
	markers []string
	kind    internal.SchoolType
}{
	{[]string{"ACADEMY", "PREP", "PREPARATORY"}, internal.SchoolPrep},
	{[]string{"SAINT ", "ST. ", "BISHOP ", "CATHOLIC", "CHRISTIAN", "LUTHERAN", "METHODIST", "BAPTIST", "EPISCOPAL"}, internal.SchoolPrivate},
	{[]string{"IES ", "INSTITUT", "LYCEE", "GYMNASIUM", "SECONDARY SCHOOL", "COLLEGE "}, internal.SchoolInternational},
	{[]string{" HS", "HIGH SCHOOL", "H.S.", "CENTRAL", "EAST ", "WEST ", "NORTH ", "SOUTH "}, internal.SchoolPublic},
}

func ClassifyType(name string) internal.SchoolType {
	upper := strings.ToUpper(name)
	for _, rule := range typeRules {
		for _, marker := range rule.markers {
			if strings.Contains(upper, marker) {
				return rule.kind
			}
		}
	}
	return internal.SchoolUnknown
}

var reDisambiguator = regexp.MustCompile(`\(([^)]*)\)`)

// ExtractDisambiguator returns the parenthetical annotation of a raw
// name, e.g. "Saint Rose" from "Central Catholic (Saint Rose)".
func ExtractDisambiguator(name string) string {
	m := reDisambiguator.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Generic names that recur in nearly every state: directionals,
// president surnames, and a handful of evergreen school names. Keys in
// this set need a state (or a disambiguator) before they identify a
// single school.
var commonNames = map[string]struct{}{
	"NORTH":      {},
	"SOUTH":      {},
	"EAST":       {},
	"WEST":       {},
	"NORTHEAST":  {},
	"NORTHWEST":  {},
	"SOUTHEAST":  {},
	"SOUTHWEST":  {},
	"WASHINGTON": {},
	"LINCOLN":    {},
	"JEFFERSON":  {},
	"MADISON":    {},
	"MONROE":     {},
	"JACKSON":    {},
	"ROOSEVELT":  {},
	"KENNEDY":    {},
	"WILSON":     {},
	"GRANT":      {},
	"CENTRAL":    {},
	"LIBERTY":    {},
	"HIGHLAND":   {},
	"RIVERSIDE":  {},
	"CENTENNIAL": {},
}

func IsCommonName(normalizedKey string) bool {
	_, ok := commonNames[normalizedKey]
	return ok
}
