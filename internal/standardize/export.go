package standardize

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"schoolmap/internal"
)

// ExportProfiles writes the unique-schools workbook: every profile on
// the first sheet plus the three curation extracts (prep academies,
// international schools, US schools awaiting directory matching) on
// their own sheets.
func ExportProfiles(profiles []internal.SchoolProfile, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "unique_schools"); err != nil {
		return err
	}

	writeProfileSheet(f, "unique_schools", profiles)

	var prep, intl, usForMatching []internal.SchoolProfile
	for _, p := range profiles {
		switch {
		case p.Type == internal.SchoolPrep:
			prep = append(prep, p)
		case p.Country != "USA":
			intl = append(intl, p)
		}
		if p.Country == "USA" && (p.Type == internal.SchoolPublic || p.Type == internal.SchoolUnknown) {
			usForMatching = append(usForMatching, p)
		}
	}

	for _, part := range []struct {
		name string
		rows []internal.SchoolProfile
	}{
		{"prep_academies", prep},
		{"international", intl},
		{"us_for_matching", usForMatching},
	} {
		if _, err := f.NewSheet(part.name); err != nil {
			return err
		}
		writeProfileSheet(f, part.name, part.rows)
	}

	return saveWorkbook(f, outputPath)
}

func writeProfileSheet(f *excelize.File, sheet string, profiles []internal.SchoolProfile) {
	headers := []string{
		"high_school_original", "state", "country", "player_count",
		"high_school_normalized", "disambiguator", "school_type", "is_common_name",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, p := range profiles {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, p.OriginalName)
		set(2, p.State)
		set(3, p.Country)
		set(4, p.OccurrenceCount)
		set(5, p.NormalizedKey)
		set(6, p.Disambiguator)
		set(7, string(p.Type))
		set(8, p.CommonName)
	}
}

// ExportDuplicateGroups writes the potential-duplicates report, one row
// per group member in report order.
func ExportDuplicateGroups(groups []internal.DuplicateGroup, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"high_school_normalized", "state", "high_school_original", "player_count", "group_size"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	r := 2
	for _, group := range groups {
		for _, member := range group.Members {
			set := func(col int, value any) {
				cell, _ := excelize.CoordinatesToCellName(col, r)
				_ = f.SetCellValue(sheet, cell, value)
			}
			set(1, group.NormalizedKey)
			set(2, group.State)
			set(3, member.OriginalName)
			set(4, member.OccurrenceCount)
			set(5, len(group.Members))
			r++
		}
	}

	return saveWorkbook(f, outputPath)
}

// ExportMapping writes the mapping workbook: the full table, the
// unmapped US schools, and any cross-source conflicts.
func ExportMapping(table *Table, report internal.CoverageReport, conflicts []internal.MappingConflict, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "mapping"); err != nil {
		return err
	}

	headers := []string{"high_school_original", "high_school_standardized", "state", "confidence", "source", "nces_id"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue("mapping", cell, h)
	}
	for i, e := range table.Entries {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue("mapping", cell, value)
		}
		set(1, e.OriginalName)
		set(2, e.StandardizedName)
		set(3, e.State)
		set(4, string(e.Confidence))
		set(5, string(e.Source))
		set(6, derefString(e.NCESID))
	}

	if _, err := f.NewSheet("unmapped"); err != nil {
		return err
	}
	writeProfileSheet(f, "unmapped", report.Unmapped)

	if _, err := f.NewSheet("conflicts"); err != nil {
		return err
	}
	conflictHeaders := []string{"high_school_original", "auto_standardized", "curated_standardized"}
	for i, h := range conflictHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue("conflicts", cell, h)
	}
	for i, c := range conflicts {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue("conflicts", cell, value)
		}
		set(1, c.OriginalName)
		set(2, c.AutoName)
		set(3, c.CuratedName)
	}

	return saveWorkbook(f, outputPath)
}

func saveWorkbook(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
