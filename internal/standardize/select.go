package standardize

import (
	"errors"
	"sort"
	"strings"

	"schoolmap/internal"
)

// SelectCanonical picks the one spelling that represents a duplicate
// group: most frequent wins; among equally frequent spellings the fuller
// "High School" form beats abbreviations, punctuation-heavy spellings
// are penalized, and lexicographic order settles exact ties.
func SelectCanonical(group internal.DuplicateGroup) (internal.RawNameRecord, error) {
	if len(group.Members) == 0 {
		return internal.RawNameRecord{}, errors.New("empty duplicate group")
	}

	maxCount := group.Members[0].OccurrenceCount
	for _, m := range group.Members[1:] {
		if m.OccurrenceCount > maxCount {
			maxCount = m.OccurrenceCount
		}
	}

	top := make([]internal.RawNameRecord, 0, len(group.Members))
	for _, m := range group.Members {
		if m.OccurrenceCount == maxCount {
			top = append(top, m)
		}
	}
	if len(top) == 1 {
		return top[0], nil
	}

	sort.Slice(top, func(i, j int) bool {
		si, sj := nameScore(top[i].OriginalName), nameScore(top[j].OriginalName)
		if si != sj {
			return si > sj
		}
		return top[i].OriginalName < top[j].OriginalName
	})
	return top[0], nil
}

func nameScore(name string) int {
	upper := strings.ToUpper(name)
	score := 0
	switch {
	case strings.Contains(upper, "HIGH SCHOOL"):
		score += 100
	case strings.Contains(upper, " HS") && !strings.Contains(upper, "H.S."):
		score += 50
	}
	score -= 10 * strings.Count(name, ".")
	return score
}
