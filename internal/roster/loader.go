package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"schoolmap/internal"
)

type rawRow struct {
	School  string
	State   string
	Country string
}

type columnIndexes struct {
	school  int
	state   int
	country int
}

// Load reads roster extracts (csv or xlsx) and aggregates them into one
// RawNameRecord per exact spelling. State and country are the modal
// values across rows; occurrence count is the number of roster entries
// using that spelling. Output is sorted by count descending, then name.
func Load(paths []string) ([]internal.RawNameRecord, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no roster files")
	}

	type agg struct {
		count     int
		states    map[string]int
		countries map[string]int
	}
	byName := map[string]*agg{}

	for _, path := range paths {
		rows, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, row := range rows {
			if strings.TrimSpace(row.School) == "" {
				continue
			}
			a := byName[row.School]
			if a == nil {
				a = &agg{states: map[string]int{}, countries: map[string]int{}}
				byName[row.School] = a
			}
			a.count++
			a.states[strings.TrimSpace(row.State)]++
			a.countries[strings.TrimSpace(row.Country)]++
		}
	}

	out := make([]internal.RawNameRecord, 0, len(byName))
	for name, a := range byName {
		out = append(out, internal.RawNameRecord{
			OriginalName:    name,
			State:           modal(a.states),
			Country:         modal(a.countries),
			OccurrenceCount: a.count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].OccurrenceCount != out[j].OccurrenceCount {
			return out[i].OccurrenceCount > out[j].OccurrenceCount
		}
		return out[i].OriginalName < out[j].OriginalName
	})
	return out, nil
}

func readFile(path string) ([]rawRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported roster file type: %s", path)
	}
}

func readCSV(path string) ([]rawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	cols, err := detectColumns(header)
	if err != nil {
		return nil, err
	}

	var out []rawRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, pickRow(record, cols))
	}
	return out, nil
}

func readXLSX(path string) ([]rawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	cols, err := detectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]rawRow, 0, len(rows)-1)
	for _, record := range rows[1:] {
		out = append(out, pickRow(record, cols))
	}
	return out, nil
}

// detectColumns finds the roster columns by header heuristics; extracts
// vary in exact header spelling across seasons.
func detectColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{school: -1, state: -1, country: -1}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case l == "high_school" || strings.Contains(l, "high school") || (strings.Contains(l, "school") && cols.school == -1):
			if cols.school == -1 {
				cols.school = i
			}
		case l == "homestate" || strings.Contains(l, "state"):
			if cols.state == -1 {
				cols.state = i
			}
		case strings.Contains(l, "country"):
			if cols.country == -1 {
				cols.country = i
			}
		}
	}
	if cols.school == -1 {
		return cols, fmt.Errorf("no high_school column in header: %v", header)
	}
	return cols, nil
}

func pickRow(record []string, cols columnIndexes) rawRow {
	pick := func(idx int) string {
		if idx >= 0 && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}
	return rawRow{School: pick(cols.school), State: pick(cols.state), Country: pick(cols.country)}
}

func modal(counts map[string]int) string {
	best := ""
	bestCount := -1
	for value, count := range counts {
		if count > bestCount || (count == bestCount && value < best) {
			best = value
			bestCount = count
		}
	}
	return best
}
