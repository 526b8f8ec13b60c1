package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/match"
	"github.com/athorsen/local2stream/internal/services"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const defaultBatchSize = 100

// MatchCache persists resolved matches between runs so repeated transfers of
// the same library skip catalog searches. Implemented by
// repositories.MatchRepository.
type MatchCache interface {
	// Get returns a previously resolved match for the title/artist pair.
	Get(title, artist string) (match.MatchResult, bool)

	// Put stores a resolved match.
	Put(desc library.TrackDescriptor, result match.MatchResult) error
}

// TransferEngine sequences one full transfer run: scan, create playlist,
// resolve each descriptor, add matches in batches, aggregate a report.
// One engine runs a single transfer at a time; all catalog calls share one
// rate-limit budget.
type TransferEngine struct {
	service   services.SearchService
	resolver  *match.Resolver
	limiter   *rate.Limiter
	cache     MatchCache
	batchSize int
	logger    *log.Logger
}

// NewTransferEngine creates an engine bound to a search service and resolver.
// RateLimit is in requests per second; zero disables the delay between calls.
func NewTransferEngine(service services.SearchService, resolver *match.Resolver, config shared.TransferConfig, logger *log.Logger) *TransferEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	batchSize := config.BatchSize
	if batchSize <= 0 || batchSize > defaultBatchSize {
		batchSize = defaultBatchSize
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)
	if resolver != nil {
		// Every catalog query the resolver issues, retries included, draws
		// from the same budget as the engine's own playlist calls.
		resolver.WithLimiter(limiter)
	}

	return &TransferEngine{
		service:   service,
		resolver:  resolver,
		limiter:   limiter,
		batchSize: batchSize,
		logger:    logger,
	}
}

// WithCache attaches an optional match cache. Cache failures never interrupt
// a run.
func (e *TransferEngine) WithCache(cache MatchCache) *TransferEngine {
	e.cache = cache
	return e
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *TransferEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs a full transfer of the audio files under dir into a new
// playlist. The returned report is always non-nil once scanning succeeds,
// even when the run was cancelled or aborted by a fatal service error, so
// partial results can still be persisted. Cancellation is observed between
// tracks; the report's Cancelled flag records a clean early stop.
func (e *TransferEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, dir, playlistName string) (*TransferReport, error) {
	if e.service == nil || e.resolver == nil {
		return nil, fmt.Errorf("%w: transfer engine not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, scanningUpdate(dir))
	descriptors, err := library.Scan(dir)
	if err != nil {
		e.sendProgress(progress, runErrorUpdate(err))
		return nil, err
	}
	if len(descriptors) == 0 {
		err := fmt.Errorf("%w: no supported audio files in %s", shared.ErrEmptyLibrary, dir)
		e.sendProgress(progress, runErrorUpdate(err))
		return nil, err
	}
	e.sendProgress(progress, scannedUpdate(len(descriptors)))

	report := NewTransferReport(playlistName)
	report.TotalScanned = len(descriptors)

	e.sendProgress(progress, creatingPlaylistUpdate(playlistName))
	description := fmt.Sprintf("%d tracks from a local library, transferred %s", len(descriptors), time.Now().Format("2006-01-02"))
	if err := e.limiter.Wait(ctx); err != nil {
		e.sendProgress(progress, runErrorUpdate(err))
		report.Finish("", false)
		return report, err
	}
	playlistID, err := e.service.CreatePlaylist(ctx, playlistName, description, false)
	if err != nil {
		e.sendProgress(progress, runErrorUpdate(err))
		report.Finish("", false)
		return report, fmt.Errorf("failed to create playlist: %w", err)
	}
	e.sendProgress(progress, playlistCreatedUpdate(playlistName, playlistID))
	e.logger.Info("playlist created", "name", playlistName, "id", playlistID)

	var (
		pendingIDs     []string
		pendingEntries []int
		added          int
		cancelled      bool
		total          = len(descriptors)
	)

	flush := func() error {
		if len(pendingIDs) == 0 {
			return nil
		}
		defer func() {
			pendingIDs = pendingIDs[:0]
			pendingEntries = pendingEntries[:0]
		}()

		// A run cancelled between tracks still delivers the batch that was
		// already matched.
		addCtx := ctx
		if cancelled {
			addCtx = context.WithoutCancel(ctx)
		}
		if err := e.limiter.Wait(addCtx); err != nil {
			report.rebucket(pendingEntries, err)
			return nil
		}

		if err := e.service.AddTracks(addCtx, playlistID, pendingIDs); err != nil {
			e.logger.Error("batch add failed", "size", len(pendingIDs), "error", err)
			report.rebucket(pendingEntries, err)
			if shared.IsFatalAuth(err) {
				return err
			}
		} else {
			added += len(pendingIDs)
			e.sendProgress(progress, addBatchUpdate(added, total))
		}

		return nil
	}

	for i, desc := range descriptors {
		select {
		case <-ctx.Done():
			cancelled = true
		default:
		}
		if cancelled {
			e.logger.Warn("transfer cancelled", "processed", report.Processed(), "total", total)
			break
		}

		e.sendProgress(progress, matchingUpdate(i+1, total, desc))

		if desc.Unparseable() {
			report.Record(desc, match.MatchResult{}, BucketError, fmt.Errorf("%w: %s", shared.ErrUnreadableFile, desc.Path))
			continue
		}

		result, cached := e.cachedMatch(desc)
		if !cached {
			result, err = e.resolver.Resolve(ctx, desc)
			if err != nil {
				if ctx.Err() != nil {
					// Cancelled mid-resolve. The track stays unprocessed
					// rather than counting as a failure.
					cancelled = true
					break
				}
				if shared.IsFatalAuth(err) {
					e.sendProgress(progress, runErrorUpdate(err))
					report.Finish(playlistID, false)
					return report, err
				}
				report.Record(desc, match.MatchResult{}, BucketError, err)
				continue
			}

			if result.Found() && e.cache != nil {
				if cacheErr := e.cache.Put(desc, result); cacheErr != nil {
					e.logger.Debug("cache write failed", "track", desc.Display(), "error", cacheErr)
				}
			}
		}

		e.sendProgress(progress, matchResultUpdate(i+1, total, desc, result))

		if !result.Found() {
			report.Record(desc, result, BucketNotFound, nil)
			continue
		}

		report.Record(desc, result, BucketAdded, nil)
		pendingIDs = append(pendingIDs, result.TrackID)
		pendingEntries = append(pendingEntries, len(report.Entries)-1)

		if len(pendingIDs) >= e.batchSize {
			if err := flush(); err != nil {
				e.sendProgress(progress, runErrorUpdate(err))
				report.Finish(playlistID, false)
				return report, err
			}
		}
	}

	if err := flush(); err != nil {
		e.sendProgress(progress, runErrorUpdate(err))
		report.Finish(playlistID, cancelled)
		return report, err
	}

	report.Finish(playlistID, cancelled)
	e.sendProgress(progress, runCompleteUpdate(report))
	e.logger.Info("transfer finished",
		"added", len(report.Added()),
		"not_found", len(report.NotFound()),
		"errors", len(report.Errored()),
		"cancelled", cancelled,
	)
	return report, nil
}

func (e *TransferEngine) cachedMatch(desc library.TrackDescriptor) (match.MatchResult, bool) {
	if e.cache == nil {
		return match.MatchResult{}, false
	}

	result, ok := e.cache.Get(desc.Title, desc.Artist)
	if !ok || !result.Found() {
		return match.MatchResult{}, false
	}
	e.logger.Debug("cache hit", "track", desc.Display(), "strategy", result.Strategy)
	return result, true
}
