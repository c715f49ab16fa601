package standardize

import (
	"sort"

	"schoolmap/internal"
)

// AnalyzeCoverage measures how much of the US roster population the
// mapping table covers, both by distinct school and weighted by
// occurrence count. Read-only: neither input is modified.
func AnalyzeCoverage(profiles []internal.SchoolProfile, table *Table) internal.CoverageReport {
	report := internal.CoverageReport{}

	for _, p := range profiles {
		if p.Country != "USA" {
			continue
		}
		report.TotalSchools++
		report.TotalOccurrences += p.OccurrenceCount
		if table.Has(p.OriginalName) {
			report.MappedSchools++
			report.MappedOccurrences += p.OccurrenceCount
		} else {
			report.Unmapped = append(report.Unmapped, p)
		}
	}

	sort.Slice(report.Unmapped, func(i, j int) bool {
		if report.Unmapped[i].OccurrenceCount != report.Unmapped[j].OccurrenceCount {
			return report.Unmapped[i].OccurrenceCount > report.Unmapped[j].OccurrenceCount
		}
		return report.Unmapped[i].OriginalName < report.Unmapped[j].OriginalName
	})

	return report
}
