package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/match"
	"github.com/athorsen/local2stream/internal/shared"
)

// MatchRepository implements tasks.MatchCache over SQLite.
//
// Matches are keyed by the normalized title/artist pair so lookups are
// insensitive to case and incidental whitespace. Only found matches are
// persisted; not-found outcomes are re-resolved on the next run since the
// catalog may have gained the track.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new MatchRepository with the given database connection
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Get retrieves a cached match for the title/artist pair.
func (r *MatchRepository) Get(title, artist string) (match.MatchResult, bool) {
	query := `
		SELECT track_id, strategy, confidence, matched_title, matched_artist
		FROM matches
		WHERE key = ?
	`

	var (
		result        match.MatchResult
		strategy      string
		matchedTitle  sql.NullString
		matchedArtist sql.NullString
	)

	row := r.db.QueryRow(query, shared.NormalizeTrackKey(title, artist))
	err := row.Scan(&result.TrackID, &strategy, &result.Confidence, &matchedTitle, &matchedArtist)
	if err != nil {
		// Storage failures degrade to cache misses.
		return match.MatchResult{}, false
	}

	result.Strategy = match.ParseStrategy(strategy)
	result.Title = matchedTitle.String
	result.Artist = matchedArtist.String
	return result, true
}

// Put upserts a resolved match. Not-found results are rejected since caching
// them would pin a permanent miss.
func (r *MatchRepository) Put(desc library.TrackDescriptor, result match.MatchResult) error {
	if !result.Found() {
		return fmt.Errorf("refusing to cache a not-found result for %s", desc.Display())
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO matches (key, title, artist, track_id, strategy, confidence, matched_title, matched_artist, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			track_id = excluded.track_id,
			strategy = excluded.strategy,
			confidence = excluded.confidence,
			matched_title = excluded.matched_title,
			matched_artist = excluded.matched_artist,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		shared.NormalizeTrackKey(desc.Title, desc.Artist),
		desc.Title,
		desc.Artist,
		result.TrackID,
		result.Strategy.String(),
		result.Confidence,
		result.Title,
		result.Artist,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to cache match: %w", err)
	}
	return nil
}

// Count returns the number of cached matches.
func (r *MatchRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM matches").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached matches: %w", err)
	}
	return count, nil
}

// Clear removes every cached match.
func (r *MatchRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("failed to clear match cache: %w", err)
	}
	return nil
}
