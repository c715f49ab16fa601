package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"schoolmap/internal/config"
	"schoolmap/internal/directory"
	"schoolmap/internal/logger"
	"schoolmap/internal/standardize"
	"schoolmap/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := logger.New()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "roster:normalize":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "roster file glob (csv or xlsx)")
		_ = fs.Parse(os.Args[2:])
		svc := standardize.NewService(db, cfg, log)
		res, err := svc.Normalize(*input)
		must(err)
		fmt.Printf("normalize done schools=%d duplicate_rows=%d groups=%d\n", res.Records, res.Duplicates, res.Groups)
	case "mapping:build":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "roster file glob (csv or xlsx)")
		curated := fs.String("curated", cfg.CuratedPath, "curated prep-school yaml file")
		out := fs.String("out", "", "output mapping xlsx path")
		_ = fs.Parse(os.Args[2:])
		svc := standardize.NewService(db, cfg, log)
		res, err := svc.Build(*input, *curated, *out)
		must(err)
		fmt.Printf("mapping built rows=%d canonical=%d conflicts=%d coverage=%.1f%% player_coverage=%.1f%%\n",
			res.Mappings, res.Canonical, len(res.Conflicts),
			res.Coverage.SchoolCoverage()*100, res.Coverage.OccurrenceCoverage()*100)
		topN := cfg.ReportTopN
		if topN > len(res.Coverage.Unmapped) {
			topN = len(res.Coverage.Unmapped)
		}
		for _, p := range res.Coverage.Unmapped[:topN] {
			fmt.Printf("  unmapped %-40s %s count=%d type=%s\n", p.OriginalName, p.State, p.OccurrenceCount, p.Type)
		}
	case "mapping:lookup":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "original school spelling")
		_ = fs.Parse(os.Args[2:])
		if *name == "" {
			must(fmt.Errorf("--name is required"))
		}
		entries, err := db.ListMappings()
		must(err)
		table := standardize.NewTableFromEntries(entries)
		entry, ok := table.Lookup(*name)
		if !ok {
			fmt.Printf("no mapping for %q\n", *name)
			os.Exit(1)
		}
		fmt.Printf("%s -> %s (state=%s confidence=%s source=%s)\n",
			entry.OriginalName, entry.StandardizedName, entry.State, entry.Confidence, entry.Source)
	case "directory:sync":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		year := fs.Int("year", cfg.DirectoryYear, "directory year")
		_ = fs.Parse(os.Args[2:])
		cfg.DirectoryYear = *year
		svc := directory.NewSyncService(db, cfg, log)
		stats, err := svc.Sync(context.Background())
		must(err)
		fmt.Printf("directory sync done states=%d downloaded=%d high_schools=%d\n", stats.States, stats.Downloaded, stats.Kept)
		total, err := db.CountDirectorySchools()
		must(err)
		if last, err := db.GetMetadata("directory.last_sync"); err == nil && last != nil {
			fmt.Printf("directory total=%d last_sync=%s\n", total, *last)
		}
		counts, err := db.CountDirectorySchoolsByState()
		must(err)
		limit := cfg.ReportTopN
		if limit > len(counts) {
			limit = len(counts)
		}
		for _, sc := range counts[:limit] {
			fmt.Printf("  %s %d\n", sc.State, sc.Count)
		}
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "roster file glob (csv or xlsx)")
		curated := fs.String("curated", cfg.CuratedPath, "curated prep-school yaml file")
		output := fs.String("output", "", "output mapping xlsx path")
		_ = fs.Parse(os.Args[2:])
		svc := standardize.NewService(db, cfg, log)
		if _, err := svc.Normalize(*input); err != nil {
			must(err)
		}
		res, err := svc.Build(*input, *curated, *output)
		must(err)
		fmt.Printf("run done rows=%d canonical=%d coverage=%.1f%%\n",
			res.Mappings, res.Canonical, res.Coverage.SchoolCoverage()*100)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: schoolmap <command>")
	fmt.Println("commands:")
	fmt.Println("  roster:normalize --input='wbb_rosters_*.csv'")
	fmt.Println("  mapping:build --input='wbb_rosters_*.csv' [--curated=prep.yaml] [--out=./out/mapping.xlsx]")
	fmt.Println("  mapping:lookup --name='Central HS'")
	fmt.Println("  directory:sync [--year=2022]")
	fmt.Println("  run --input='wbb_rosters_*.csv' [--curated=prep.yaml] [--output=./out/mapping.xlsx]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
