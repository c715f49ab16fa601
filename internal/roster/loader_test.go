package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAggregatesCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wbb_rosters_2023.csv")
	content := `name,high_school,homestate,country_clean
Player A,Central High School,OH,USA
Player B,Central High School,OH,USA
Player C,Central HS,OH,USA
Player D,Lincoln HS,,USA
Player E,,OH,USA
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := Load([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}

	// Sorted by occurrence count descending.
	first := records[0]
	if first.OriginalName != "Central High School" || first.OccurrenceCount != 2 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.State != "OH" || first.Country != "USA" {
		t.Fatalf("unexpected modal state/country: %+v", first)
	}

	for _, r := range records {
		if r.OriginalName == "Lincoln HS" && r.State != "" {
			t.Fatalf("empty state should stay empty, got %q", r.State)
		}
	}
}

func TestLoadAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"name,high_school,homestate,country_clean\nA,Central HS,OH,USA\n",
		"name,high_school,homestate,country_clean\nB,Central HS,OH,USA\nC,Central HS,PA,USA\n",
	}
	paths := make([]string, 0, len(files))
	for i, content := range files {
		p := filepath.Join(dir, "rosters_"+string(rune('a'+i))+".csv")
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	records, err := Load(paths)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].OccurrenceCount != 3 {
		t.Fatalf("count = %d, want 3", records[0].OccurrenceCount)
	}
	// Modal state across files.
	if records[0].State != "OH" {
		t.Fatalf("state = %q, want OH", records[0].State)
	}
}

func TestDetectColumnsRequiresSchool(t *testing.T) {
	if _, err := detectColumns([]string{"name", "team", "year"}); err == nil {
		t.Fatal("expected error when no school column present")
	}
}
