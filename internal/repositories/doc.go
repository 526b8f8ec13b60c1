// Package repositories implements SQLite persistence for transfer state.
//
// Two repositories back the transfer engine:
//   - [MatchRepository] : resolved match caching keyed by normalized
//     title/artist, so repeated transfers of the same library skip catalog
//     searches
//   - [RunRepository] : transfer run history with per-bucket counts
//
// Both share one database handle and create their tables on first use via
// [InitSchema]. Cache rows are upserted; a re-resolved track replaces its
// previous row rather than accumulating duplicates.
package repositories
