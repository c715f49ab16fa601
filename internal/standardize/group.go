package standardize

import (
	"sort"

	"schoolmap/internal"
	"schoolmap/internal/util"
)

type groupKey struct {
	key   string
	state string
}

// GroupDuplicates partitions US records by (normalized key, state) and
// keeps the buckets with two or more distinct spellings. An empty state
// is a key like any other. Groups come back sorted by (key, state) and
// members by occurrence count descending for stable reporting.
func GroupDuplicates(records []internal.RawNameRecord) []internal.DuplicateGroup {
	buckets := map[groupKey][]internal.RawNameRecord{}
	for _, rec := range records {
		if rec.Country != "USA" {
			continue
		}
		k := groupKey{key: util.NormalizeName(rec.OriginalName), state: rec.State}
		buckets[k] = append(buckets[k], rec)
	}

	out := make([]internal.DuplicateGroup, 0)
	for k, members := range buckets {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			if members[i].OccurrenceCount != members[j].OccurrenceCount {
				return members[i].OccurrenceCount > members[j].OccurrenceCount
			}
			return members[i].OriginalName < members[j].OriginalName
		})
		out = append(out, internal.DuplicateGroup{NormalizedKey: k.key, State: k.state, Members: members})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].NormalizedKey != out[j].NormalizedKey {
			return out[i].NormalizedKey < out[j].NormalizedKey
		}
		return out[i].State < out[j].State
	})
	return out
}
