package standardize

import (
	"testing"

	"schoolmap/internal"
	"schoolmap/internal/util"
)

func rec(name, state, country string, count int) internal.RawNameRecord {
	return internal.RawNameRecord{OriginalName: name, State: state, Country: country, OccurrenceCount: count}
}

func TestGroupDuplicates(t *testing.T) {
	records := []internal.RawNameRecord{
		rec("Central High School", "OH", "USA", 5),
		rec("Central HS", "OH", "USA", 5),
		rec("Central High School", "PA", "USA", 3),
		rec("Lincoln HS", "OH", "USA", 1),
		rec("Toronto Prep", "ON", "CAN", 4),
		rec("Toronto Preparatory", "ON", "CAN", 4),
		rec("Washington HS", "", "USA", 2),
		rec("Washington High School", "", "USA", 1),
	}

	groups := GroupDuplicates(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(groups), groups)
	}

	// Sorted by normalized key; members by occurrence count descending.
	if groups[0].NormalizedKey != "CENTRAL" || groups[0].State != "OH" {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if len(groups[0].Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(groups[0].Members))
	}

	if groups[1].NormalizedKey != "WASHINGTON" || groups[1].State != "" {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
	if groups[1].Members[0].OriginalName != "Washington HS" {
		t.Fatalf("members not sorted by count: %+v", groups[1].Members)
	}
}

func TestGroupDuplicatesPartitionProperty(t *testing.T) {
	records := []internal.RawNameRecord{
		rec("Central High School", "OH", "USA", 5),
		rec("Central HS", "OH", "USA", 5),
		rec("Central H.S.", "OH", "USA", 1),
		rec("Lincoln High School", "OH", "USA", 2),
		rec("Lincoln HS", "NE", "USA", 2),
	}

	groups := GroupDuplicates(records)

	memberGroup := map[string]int{}
	for i, g := range groups {
		for _, m := range g.Members {
			memberGroup[m.OriginalName] = i
		}
	}

	for _, a := range records {
		for _, b := range records {
			if a.OriginalName == b.OriginalName {
				continue
			}
			ga, inA := memberGroup[a.OriginalName]
			gb, inB := memberGroup[b.OriginalName]
			sameKey := util.NormalizeName(a.OriginalName) == util.NormalizeName(b.OriginalName) && a.State == b.State
			sameGroup := inA && inB && ga == gb
			if sameKey != sameGroup {
				t.Fatalf("partition violated for %q / %q: sameKey=%v sameGroup=%v", a.OriginalName, b.OriginalName, sameKey, sameGroup)
			}
		}
	}
}
