// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists interpreted scans in a local SQLite database
// and supports full-text search over past results.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/medivision/medscan/pkg/types"
)

const dbFile = "scans.db"

// Store manages the scan-history SQLite database.
type Store struct {
	db         *sql.DB
	historyDir string
	maxResults int
}

// NewStore opens or creates the history database at
// historyDir/scans.db, creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.HistoryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		historyDir: cfg.HistoryDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			brand_name TEXT NOT NULL,
			generic_name TEXT,
			active_ingredient TEXT,
			indications TEXT,
			manufacturer TEXT,
			tier TEXT NOT NULL,
			image_path TEXT,
			raw_text TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='scans_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE scans_fts USING fts5(brand_name, generic_name, raw_text, content=scans, content_rowid=rowid)`,
			`CREATE TRIGGER scans_ai AFTER INSERT ON scans BEGIN
				INSERT INTO scans_fts(rowid, brand_name, generic_name, raw_text)
				VALUES (new.rowid, new.brand_name, new.generic_name, new.raw_text);
			END`,
			`CREATE TRIGGER scans_ad AFTER DELETE ON scans BEGIN
				INSERT INTO scans_fts(scans_fts, rowid, brand_name, generic_name, raw_text)
				VALUES('delete', old.rowid, old.brand_name, old.generic_name, old.raw_text);
			END`,
			`CREATE TRIGGER scans_au AFTER UPDATE ON scans BEGIN
				INSERT INTO scans_fts(scans_fts, rowid, brand_name, generic_name, raw_text)
				VALUES('delete', old.rowid, old.brand_name, old.generic_name, old.raw_text);
				INSERT INTO scans_fts(rowid, brand_name, generic_name, raw_text)
				VALUES (new.rowid, new.brand_name, new.generic_name, new.raw_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Save stores an interpreted scan. A missing ID or timestamp is filled
// in before insert.
func (s *Store) Save(ctx context.Context, rec *types.ScanRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (id, brand_name, generic_name, active_ingredient,
			indications, manufacturer, tier, image_path, raw_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Medication.BrandName, rec.Medication.GenericName,
		rec.Medication.ActiveIngredient, rec.Medication.Indications,
		rec.Medication.Manufacturer, string(rec.Medication.Tier),
		rec.ImagePath, rec.RawText, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting scan %s: %w", rec.ID, err)
	}
	return nil
}

// List returns the most recent scans, newest first. A limit of zero
// uses the store default.
func (s *Store) List(ctx context.Context, limit int) ([]types.ScanRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, brand_name, generic_name, active_ingredient, indications,
			manufacturer, tier, image_path, raw_text, created_at
		 FROM scans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Search runs an FTS5 match over brand names, generic names, and raw
// label text, ranked by relevance.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.ScanRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sc.id, sc.brand_name, sc.generic_name, sc.active_ingredient,
			sc.indications, sc.manufacturer, sc.tier, sc.image_path,
			sc.raw_text, sc.created_at
		 FROM scans_fts
		 JOIN scans sc ON sc.rowid = scans_fts.rowid
		 WHERE scans_fts MATCH ?
		 ORDER BY scans_fts.rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching scans: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]types.ScanRecord, error) {
	var records []types.ScanRecord
	for rows.Next() {
		var (
			rec       types.ScanRecord
			tier      string
			createdAt string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Medication.BrandName, &rec.Medication.GenericName,
			&rec.Medication.ActiveIngredient, &rec.Medication.Indications,
			&rec.Medication.Manufacturer, &tier, &rec.ImagePath,
			&rec.RawText, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rec.Medication.Tier = types.Tier(tier)
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const exportLimit = 100000

// ExportYAML writes the full scan history to historyDir/export.yaml,
// newest first.
func (s *Store) ExportYAML(ctx context.Context) error {
	records, err := s.List(ctx, exportLimit)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	path := filepath.Join(s.historyDir, "export.yaml")
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the full scan history to historyDir/export.json,
// newest first.
func (s *Store) ExportJSON(ctx context.Context) error {
	records, err := s.List(ctx, exportLimit)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	path := filepath.Join(s.historyDir, "export.json")
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
