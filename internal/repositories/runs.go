package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/athorsen/local2stream/internal/tasks"
)

// RunSummary is one row of transfer history.
type RunSummary struct {
	ID           string
	PlaylistID   string
	PlaylistName string
	TotalScanned int
	Added        int
	NotFound     int
	Errors       int
	Cancelled    bool
	StartedAt    time.Time
	CompletedAt  time.Time
}

// RunRepository stores finished transfer runs for the history command.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save records one finished run.
func (r *RunRepository) Save(report *tasks.TransferReport) error {
	query := `
		INSERT INTO runs (id, playlist_id, playlist_name, total_scanned, added, not_found, errors, cancelled, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		report.RunID,
		report.PlaylistID,
		report.PlaylistName,
		report.TotalScanned,
		len(report.Added()),
		len(report.NotFound()),
		len(report.Errored()),
		report.Cancelled,
		report.StartedAt,
		report.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *RunRepository) Recent(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, playlist_id, playlist_name, total_scanned, added, not_found, errors, cancelled, started_at, completed_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			run        RunSummary
			playlistID sql.NullString
		)
		if err := rows.Scan(
			&run.ID,
			&playlistID,
			&run.PlaylistName,
			&run.TotalScanned,
			&run.Added,
			&run.NotFound,
			&run.Errors,
			&run.Cancelled,
			&run.StartedAt,
			&run.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.PlaylistID = playlistID.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}
