// Package archive keeps a history of generated cards in SQLite.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/marine-card/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    generated_at  TEXT NOT NULL,
    card_date     TEXT NOT NULL,
    advisories    TEXT NOT NULL,
    synopsis      TEXT,
    zones         TEXT NOT NULL,
    moon_phase    TEXT,
    illumination  INTEGER,
    rain_chance   INTEGER,
    output_path   TEXT NOT NULL,
    image_bytes   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at);
`

// Store records one row per successful card render.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the archive database at path and applies the
// schema. Pragmas go through Exec so they hold for any driver.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// RecordRun inserts one run row. Structured fields are stored as JSON text
// columns so the schema survives card layout changes.
func (s *Store) RecordRun(ctx context.Context, rec domain.RunRecord) error {
	advisories, err := json.Marshal(rec.Advisories)
	if err != nil {
		return fmt.Errorf("marshal advisories: %w", err)
	}
	zones, err := json.Marshal(rec.Zones)
	if err != nil {
		return fmt.Errorf("marshal zones: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (generated_at, card_date, advisories, synopsis, zones, moon_phase, illumination, rain_chance, output_path, image_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.GeneratedAt.UTC().Format(time.RFC3339), rec.CardDate, string(advisories), rec.Synopsis,
		string(zones), rec.MoonPhase, rec.Illumination, rec.RainChance, rec.OutputPath, rec.ImageBytes,
	)
	return err
}

// RecentRuns returns at most limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT generated_at, card_date, advisories, synopsis, zones, moon_phase, illumination, rain_chance, output_path, image_bytes
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var (
			rec         domain.RunRecord
			generatedAt string
			advisories  string
			zones       string
			rain        sql.NullInt64
		)
		if err := rows.Scan(&generatedAt, &rec.CardDate, &advisories, &rec.Synopsis, &zones,
			&rec.MoonPhase, &rec.Illumination, &rain, &rec.OutputPath, &rec.ImageBytes); err != nil {
			return nil, err
		}

		rec.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse generated_at: %w", err)
		}
		if err := json.Unmarshal([]byte(advisories), &rec.Advisories); err != nil {
			return nil, fmt.Errorf("unmarshal advisories: %w", err)
		}
		if err := json.Unmarshal([]byte(zones), &rec.Zones); err != nil {
			return nil, fmt.Errorf("unmarshal zones: %w", err)
		}
		if rain.Valid {
			v := int(rain.Int64)
			rec.RainChance = &v
		}

		runs = append(runs, rec)
	}
	return runs, rows.Err()
}
