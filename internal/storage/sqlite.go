// Package storage provides SQLite-based persistence for section-view
// analytics and saved effect snapshots.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ViewEntry is one recorded visit of a section.
type ViewEntry struct {
	ID        int64
	SessionID string
	SectionID string
	Dwell     time.Duration
	CreatedAt time.Time
}

// SectionStats aggregates views of one section.
type SectionStats struct {
	SectionID  string
	Views      int
	TotalDwell time.Duration
	LastViewed time.Time
}

// Snapshot records a saved effect frame.
type Snapshot struct {
	ID        int64
	Source    string // image reference the frame was rendered from
	Preset    string
	Path      string // where the PNG was written
	Width     int
	Height    int
	CreatedAt time.Time
}

// DefaultPath returns ~/.folio/folio.db.
func DefaultPath() string {
	return "~/.folio/folio.db"
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = DefaultPath()
	}

	// Expand ~ to home directory
	if dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS section_views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			section_id TEXT NOT NULL,
			dwell_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_section_views_section ON section_views(section_id);
		CREATE INDEX IF NOT EXISTS idx_section_views_session ON section_views(session_id);

		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			preset TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordView records that a session spent dwell on a section.
// Returns the ID of the inserted record.
func (s *Store) RecordView(sessionID, sectionID string, dwell time.Duration) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO section_views (session_id, section_id, dwell_ms) VALUES (?, ?, ?)",
		sessionID, sectionID, dwell.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record view: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SessionViews retrieves the views of one session in the order they happened.
func (s *Store) SessionViews(sessionID string) ([]ViewEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, section_id, dwell_ms, created_at
		 FROM section_views
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query views: %w", err)
	}
	defer rows.Close()

	var entries []ViewEntry
	for rows.Next() {
		var e ViewEntry
		var dwellMs int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.SectionID, &dwellMs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Dwell = time.Duration(dwellMs) * time.Millisecond
		e.CreatedAt = parseTimestamp(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// TopSections retrieves the most viewed sections.
// Results are ordered by view count descending, then total dwell.
func (s *Store) TopSections(limit int) ([]SectionStats, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT section_id, COUNT(*), COALESCE(SUM(dwell_ms), 0), MAX(created_at)
		 FROM section_views
		 GROUP BY section_id
		 ORDER BY COUNT(*) DESC, SUM(dwell_ms) DESC, section_id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query section stats: %w", err)
	}
	defer rows.Close()

	var stats []SectionStats
	for rows.Next() {
		var st SectionStats
		var dwellMs int64
		var lastViewed any
		if err := rows.Scan(&st.SectionID, &st.Views, &dwellMs, &lastViewed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.TotalDwell = time.Duration(dwellMs) * time.Millisecond
		st.LastViewed = parseTimestamp(lastViewed)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearViews deletes all recorded views.
func (s *Store) ClearViews() error {
	_, err := s.db.Exec("DELETE FROM section_views")
	if err != nil {
		return fmt.Errorf("storage: cannot clear views: %w", err)
	}
	return nil
}

// SaveSnapshot records a saved frame.
// Returns the ID of the inserted record.
func (s *Store) SaveSnapshot(snap Snapshot) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO snapshots (source, preset, path, width, height)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.Source, snap.Preset, snap.Path, snap.Width, snap.Height,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save snapshot: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SnapshotByID retrieves a snapshot, or nil if it does not exist.
func (s *Store) SnapshotByID(id int64) (*Snapshot, error) {
	var snap Snapshot
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, source, preset, path, width, height, created_at
		 FROM snapshots
		 WHERE id = ?`,
		id,
	).Scan(&snap.ID, &snap.Source, &snap.Preset, &snap.Path, &snap.Width, &snap.Height, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshot: %w", err)
	}

	snap.CreatedAt = parseTimestamp(createdAt)
	return &snap, nil
}

// RecentSnapshots retrieves the most recent snapshots.
func (s *Store) RecentSnapshots(limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, source, preset, path, width, height, created_at
		 FROM snapshots
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt any
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.Preset, &snap.Path, &snap.Width, &snap.Height, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		snap.CreatedAt = parseTimestamp(createdAt)
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return snaps, nil
}

// parseTimestamp handles both time.Time and string datetimes.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
