package standardize

import (
	"fmt"

	"schoolmap/internal"
)

// Table is the final mapping artifact. Entries keeps every row from both
// sources in append order; the same original name may appear twice when
// duplicate resolution and the curated list both propose a mapping.
type Table struct {
	Entries []internal.MappingEntry

	lookup map[string]internal.MappingEntry
}

// BuildMapping concatenates duplicate-derived mappings with the curated
// prep-school list. Every group member maps to the selected canonical
// spelling, the canonical record included (it maps to itself). Conflicts
// between the two sources are returned for reporting; the table itself
// keeps both rows.
func BuildMapping(groups []internal.DuplicateGroup, curated []internal.CuratedSchool) (*Table, []internal.MappingConflict, error) {
	table := &Table{lookup: map[string]internal.MappingEntry{}}

	autoByOriginal := map[string]string{}
	for _, group := range groups {
		canonical, err := SelectCanonical(group)
		if err != nil {
			return nil, nil, fmt.Errorf("group %q/%q: %w", group.NormalizedKey, group.State, err)
		}
		for _, member := range group.Members {
			entry := internal.MappingEntry{
				OriginalName:     member.OriginalName,
				StandardizedName: canonical.OriginalName,
				State:            group.State,
				Confidence:       internal.ConfidenceHighAuto,
				Source:           internal.SourceDuplicateResolution,
			}
			table.Entries = append(table.Entries, entry)
			table.lookup[entry.OriginalName] = entry
			autoByOriginal[entry.OriginalName] = entry.StandardizedName
		}
	}

	var conflicts []internal.MappingConflict
	for _, c := range curated {
		entry := internal.MappingEntry{
			OriginalName:     c.OriginalName,
			StandardizedName: c.StandardizedName,
			State:            c.State,
			Confidence:       internal.ConfidenceHighManual,
			Source:           internal.SourcePrepSchoolCurated,
		}
		table.Entries = append(table.Entries, entry)
		// Curated entries win lookups; the auto row still persists.
		table.lookup[entry.OriginalName] = entry

		if auto, ok := autoByOriginal[c.OriginalName]; ok && auto != c.StandardizedName {
			conflicts = append(conflicts, internal.MappingConflict{
				OriginalName: c.OriginalName,
				AutoName:     auto,
				CuratedName:  c.StandardizedName,
			})
		}
	}

	return table, conflicts, nil
}

// NewTableFromEntries rebuilds a Table from persisted rows, applying the
// same lookup precedence as BuildMapping: a curated row for an original
// name shadows the duplicate-resolution row.
func NewTableFromEntries(entries []internal.MappingEntry) *Table {
	t := &Table{Entries: entries, lookup: map[string]internal.MappingEntry{}}
	for _, e := range entries {
		if existing, ok := t.lookup[e.OriginalName]; ok &&
			existing.Source == internal.SourcePrepSchoolCurated &&
			e.Source != internal.SourcePrepSchoolCurated {
			continue
		}
		t.lookup[e.OriginalName] = e
	}
	return t
}

// Lookup resolves an original spelling to its mapping entry. When both
// sources mapped the name, the curated entry is returned.
func (t *Table) Lookup(originalName string) (internal.MappingEntry, bool) {
	entry, ok := t.lookup[originalName]
	return entry, ok
}

func (t *Table) Has(originalName string) bool {
	_, ok := t.lookup[originalName]
	return ok
}

// CanonicalCount reports how many distinct standardized names the table
// resolves to.
func (t *Table) CanonicalCount() int {
	seen := map[string]struct{}{}
	for _, e := range t.Entries {
		seen[e.StandardizedName] = struct{}{}
	}
	return len(seen)
}
