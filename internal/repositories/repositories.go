package repositories

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the cache and history tables if they do not exist.
// Safe to call on every startup.
func InitSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS matches (
			key TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			track_id TEXT NOT NULL,
			strategy TEXT NOT NULL,
			confidence REAL NOT NULL,
			matched_title TEXT,
			matched_artist TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			playlist_id TEXT,
			playlist_name TEXT NOT NULL,
			total_scanned INTEGER NOT NULL,
			added INTEGER NOT NULL,
			not_found INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			cancelled INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
