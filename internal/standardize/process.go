package standardize

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"schoolmap/internal"
	"schoolmap/internal/config"
	"schoolmap/internal/logger"
	"schoolmap/internal/roster"
	"schoolmap/internal/storage"
)

type Service struct {
	db  *storage.DB
	cfg config.Config
	log *logger.Logger
}

func NewService(db *storage.DB, cfg config.Config, log *logger.Logger) *Service {
	return &Service{db: db, cfg: cfg, log: log}
}

type NormalizeResult struct {
	Records    int
	Duplicates int
	Groups     int
}

// Normalize loads roster extracts, annotates every unique spelling, and
// writes the unique-schools and potential-duplicates reports.
func (s *Service) Normalize(inputGlob string) (NormalizeResult, error) {
	start := time.Now()

	records, err := s.loadRecords(inputGlob)
	if err != nil {
		return NormalizeResult{}, err
	}

	profiles := BuildProfiles(records)
	groups := GroupDuplicates(records)

	duplicateRows := 0
	for _, g := range groups {
		duplicateRows += len(g.Members)
	}
	s.log.WithField("records", len(records)).
		WithField("groups", len(groups)).
		WithField("duplicate_rows", duplicateRows).
		Info("normalization complete")

	if err := ExportProfiles(profiles, filepath.Join(s.cfg.OutputDir, "high_schools_unique.xlsx")); err != nil {
		return NormalizeResult{}, err
	}
	if err := ExportDuplicateGroups(groups, filepath.Join(s.cfg.OutputDir, "high_schools_potential_duplicates.xlsx")); err != nil {
		return NormalizeResult{}, err
	}

	result := NormalizeResult{Records: len(records), Duplicates: duplicateRows, Groups: len(groups)}
	s.recordRun("roster:normalize", start, map[string]int{
		"records":       result.Records,
		"groups":        result.Groups,
		"duplicateRows": result.Duplicates,
	})
	return result, nil
}

type BuildResult struct {
	Records   int
	Groups    int
	Mappings  int
	Canonical int
	Conflicts []internal.MappingConflict
	Coverage  internal.CoverageReport
}

// Build runs the whole pipeline: load rosters, group duplicates, merge
// with the curated list, persist and export the mapping, and measure
// coverage.
func (s *Service) Build(inputGlob, curatedPath, outputPath string) (BuildResult, error) {
	start := time.Now()

	records, err := s.loadRecords(inputGlob)
	if err != nil {
		return BuildResult{}, err
	}
	profiles := BuildProfiles(records)
	groups := GroupDuplicates(records)

	curated, err := LoadCurated(curatedPath)
	if err != nil {
		return BuildResult{}, err
	}

	table, conflicts, err := BuildMapping(groups, curated)
	if err != nil {
		return BuildResult{}, err
	}
	for _, c := range conflicts {
		s.log.WithField("original", c.OriginalName).
			WithField("auto", c.AutoName).
			WithField("curated", c.CuratedName).
			Warn("mapping conflict between sources")
	}

	report := AnalyzeCoverage(profiles, table)

	if err := s.db.ReplaceMappings(table.Entries); err != nil {
		return BuildResult{}, err
	}
	if outputPath == "" {
		outputPath = filepath.Join(s.cfg.OutputDir, "high_school_mapping.xlsx")
	}
	if err := ExportMapping(table, report, conflicts, outputPath); err != nil {
		return BuildResult{}, err
	}

	s.log.WithField("mappings", len(table.Entries)).
		WithField("canonical", table.CanonicalCount()).
		WithField("school_coverage", fmt.Sprintf("%.1f%%", report.SchoolCoverage()*100)).
		WithField("player_coverage", fmt.Sprintf("%.1f%%", report.OccurrenceCoverage()*100)).
		Info("mapping built")

	result := BuildResult{
		Records:   len(records),
		Groups:    len(groups),
		Mappings:  len(table.Entries),
		Canonical: table.CanonicalCount(),
		Conflicts: conflicts,
		Coverage:  report,
	}
	s.recordRun("mapping:build", start, map[string]int{
		"records":   result.Records,
		"groups":    result.Groups,
		"mappings":  result.Mappings,
		"canonical": result.Canonical,
		"conflicts": len(result.Conflicts),
		"unmapped":  len(report.Unmapped),
	})
	return result, nil
}

func (s *Service) loadRecords(inputGlob string) ([]internal.RawNameRecord, error) {
	if inputGlob == "" {
		inputGlob = s.cfg.RosterGlob
	}
	paths, err := filepath.Glob(inputGlob)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no roster files match %q", inputGlob)
	}
	sort.Strings(paths)

	for _, p := range paths {
		s.log.WithField("file", p).Debug("reading roster file")
	}
	records, err := roster.Load(paths)
	if err != nil {
		return nil, err
	}
	s.log.WithField("files", len(paths)).WithField("unique_schools", len(records)).Info("rosters loaded")
	return records, nil
}

func (s *Service) recordRun(command string, start time.Time, counts map[string]int) {
	timings := map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}
	if err := s.db.InsertRun(uuid.New().String(), command, timings, counts); err != nil {
		s.log.WithError(err).Warn("failed to record run")
	}
}
