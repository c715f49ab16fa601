package standardize

import (
	"testing"

	"schoolmap/internal"
)

func TestBuildMappingEndToEnd(t *testing.T) {
	records := []internal.RawNameRecord{
		rec("Central High School", "OH", "USA", 5),
		rec("Central HS", "OH", "USA", 5),
		rec("Lincoln HS", "OH", "USA", 1),
	}

	groups := GroupDuplicates(records)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	table, conflicts, err := BuildMapping(groups, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	if len(table.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(table.Entries))
	}

	// Every group member maps to the canonical, the canonical included.
	for _, original := range []string{"Central High School", "Central HS"} {
		entry, ok := table.Lookup(original)
		if !ok {
			t.Fatalf("missing mapping for %q", original)
		}
		if entry.StandardizedName != "Central High School" {
			t.Fatalf("%q mapped to %q", original, entry.StandardizedName)
		}
		if entry.Confidence != internal.ConfidenceHighAuto || entry.Source != internal.SourceDuplicateResolution {
			t.Fatalf("unexpected provenance: %+v", entry)
		}
		if entry.NCESID != nil {
			t.Fatalf("nces id should stay null, got %v", *entry.NCESID)
		}
	}

	// Ungrouped spellings stay out of the mapping.
	if table.Has("Lincoln HS") {
		t.Fatal("Lincoln HS should not be mapped")
	}
}

func TestBuildMappingCuratedAppend(t *testing.T) {
	curated := []internal.CuratedSchool{
		{OriginalName: "IMG", StandardizedName: "IMG Academy", State: "FL"},
	}
	table, conflicts, err := BuildMapping(nil, curated)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}

	entry, ok := table.Lookup("IMG")
	if !ok {
		t.Fatal("missing curated mapping")
	}
	if entry.StandardizedName != "IMG Academy" {
		t.Fatalf("got %q", entry.StandardizedName)
	}
	if entry.Confidence != internal.ConfidenceHighManual || entry.Source != internal.SourcePrepSchoolCurated {
		t.Fatalf("unexpected provenance: %+v", entry)
	}
}

func TestBuildMappingConflictDetection(t *testing.T) {
	groups := []internal.DuplicateGroup{
		{
			NormalizedKey: "CENTRAL",
			State:         "OH",
			Members: []internal.RawNameRecord{
				rec("Central High School", "OH", "USA", 5),
				rec("Central HS", "OH", "USA", 2),
			},
		},
	}
	curated := []internal.CuratedSchool{
		{OriginalName: "Central HS", StandardizedName: "Central Academy", State: "OH"},
	}

	table, conflicts, err := BuildMapping(groups, curated)
	if err != nil {
		t.Fatal(err)
	}

	// Both rows survive in the table.
	if len(table.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(table.Entries))
	}

	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.OriginalName != "Central HS" || c.AutoName != "Central High School" || c.CuratedName != "Central Academy" {
		t.Fatalf("unexpected conflict: %+v", c)
	}

	// Lookup precedence: curated wins.
	entry, _ := table.Lookup("Central HS")
	if entry.StandardizedName != "Central Academy" || entry.Source != internal.SourcePrepSchoolCurated {
		t.Fatalf("curated entry should win lookup: %+v", entry)
	}
}

func TestNewTableFromEntries(t *testing.T) {
	entries := []internal.MappingEntry{
		{OriginalName: "Central HS", StandardizedName: "Central High School", State: "OH", Confidence: internal.ConfidenceHighAuto, Source: internal.SourceDuplicateResolution},
		{OriginalName: "Central HS", StandardizedName: "Central Academy", State: "OH", Confidence: internal.ConfidenceHighManual, Source: internal.SourcePrepSchoolCurated},
		{OriginalName: "IMG", StandardizedName: "IMG Academy", State: "FL", Confidence: internal.ConfidenceHighManual, Source: internal.SourcePrepSchoolCurated},
	}

	table := NewTableFromEntries(entries)
	if len(table.Entries) != 3 {
		t.Fatalf("entries = %d", len(table.Entries))
	}

	// Curated shadows auto regardless of row order.
	entry, ok := table.Lookup("Central HS")
	if !ok || entry.StandardizedName != "Central Academy" {
		t.Fatalf("unexpected lookup: %+v", entry)
	}
	if _, ok := table.Lookup("IMG"); !ok {
		t.Fatal("missing IMG")
	}
}
