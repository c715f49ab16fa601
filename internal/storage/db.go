package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"schoolmap/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS directory_schools (
  ncessch TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  district_name TEXT,
  district_id TEXT,
  street TEXT,
  city TEXT,
  state TEXT,
  zip TEXT,
  phone TEXT,
  county TEXT,
  school_level INTEGER,
  lowest_grade INTEGER,
  highest_grade INTEGER,
  school_status INTEGER,
  enrollment INTEGER,
  fips INTEGER,
  year INTEGER NOT NULL,
  raw_json TEXT NOT NULL,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_directory_schools_name ON directory_schools(name);
CREATE INDEX IF NOT EXISTS idx_directory_schools_state ON directory_schools(state);

CREATE TABLE IF NOT EXISTS mappings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  originalName TEXT NOT NULL,
  standardizedName TEXT NOT NULL,
  state TEXT,
  confidence TEXT NOT NULL,
  source TEXT NOT NULL,
  ncesId TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_mappings_originalName ON mappings(originalName);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  command TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) UpsertDirectorySchools(schools []internal.DirectorySchool) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO directory_schools (
  ncessch, name, district_name, district_id, street, city, state, zip, phone, county,
  school_level, lowest_grade, highest_grade, school_status, enrollment, fips, year, raw_json, lastSeenAt
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(ncessch) DO UPDATE SET
  name=excluded.name,
  district_name=excluded.district_name,
  district_id=excluded.district_id,
  street=excluded.street,
  city=excluded.city,
  state=excluded.state,
  zip=excluded.zip,
  phone=excluded.phone,
  county=excluded.county,
  school_level=excluded.school_level,
  lowest_grade=excluded.lowest_grade,
  highest_grade=excluded.highest_grade,
  school_status=excluded.school_status,
  enrollment=excluded.enrollment,
  fips=excluded.fips,
  year=excluded.year,
  raw_json=excluded.raw_json,
  lastSeenAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range schools {
		if _, err := stmt.Exec(
			s.NCESID, s.Name, s.DistrictName, s.DistrictID, s.Street, s.City, s.State, s.Zip, s.Phone, s.County,
			s.SchoolLevel, s.LowestGrade, s.HighestGrade, s.SchoolStatus, s.Enrollment, s.FIPS, s.Year, s.RawJSON,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) CountDirectorySchools() (int, error) {
	var count int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM directory_schools`).Scan(&count)
	return count, err
}

type StateCount struct {
	State string
	Count int
}

func (d *DB) CountDirectorySchoolsByState() ([]StateCount, error) {
	rows, err := d.conn.Query(`
SELECT COALESCE(state, ''), COUNT(*)
FROM directory_schools
GROUP BY state
ORDER BY COUNT(*) DESC, state ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StateCount
	for rows.Next() {
		var sc StateCount
		if err := rows.Scan(&sc.State, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ReplaceMappings swaps the persisted mapping table for the given
// entries. The table is rebuilt whole each run.
func (d *DB) ReplaceMappings(entries []internal.MappingEntry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM mappings`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO mappings (originalName, standardizedName, state, confidence, source, ncesId)
VALUES (?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.OriginalName, e.StandardizedName, e.State, string(e.Confidence), string(e.Source), e.NCESID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListMappings() ([]internal.MappingEntry, error) {
	rows, err := d.conn.Query(`
SELECT originalName, standardizedName, state, confidence, source, ncesId
FROM mappings ORDER BY id ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.MappingEntry
	for rows.Next() {
		var e internal.MappingEntry
		var confidence, source string
		if err := rows.Scan(&e.OriginalName, &e.StandardizedName, &e.State, &confidence, &source, &e.NCESID); err != nil {
			return nil, err
		}
		e.Confidence = internal.Confidence(confidence)
		e.Source = internal.MappingSource(source)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID, command string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, command, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, command, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
