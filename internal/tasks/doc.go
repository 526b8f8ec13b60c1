// Package tasks orchestrates local-library-to-streaming transfer runs with
// real-time progress reporting.
//
// # Core Operation
//
// [TransferEngine.Run] drives one full transfer:
//   - Scans the local music directory into track descriptors
//   - Creates the destination playlist on the streaming service
//   - Resolves each descriptor through the matching cascade
//   - Adds matched tracks in batches that respect the platform's API limits
//   - Aggregates every outcome into a [TransferReport]
//
// A single engine runs one transfer at a time. All catalog calls are
// serialized through one rate limiter so the service's request budget is
// shared correctly.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering. Updates use select with default
// to prevent blocking.
//
// # Match Caching
//
// The optional [MatchCache] interface enables automatic persistence of
// resolved matches during transfers. Cache writes are silent (errors
// ignored) to avoid disrupting a run; repeated transfers of the same
// library skip catalog searches for tracks already resolved.
//
// # Cancellation
//
// Cancellation is cooperative. The engine checks the context between tracks
// and stops cleanly, leaving the report in a consistent partial state so
// callers can still persist what was processed.
package tasks
