// package match resolves local track descriptors against a streaming catalog.
//
// The resolver runs a deterministic, ordered cascade of search strategies
// (exact, fuzzy, title-only, artist-fallback) and returns exactly one
// MatchResult per descriptor. Strategies are held as an explicit list so
// their ordering and tie-break rules stay auditable and testable.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/services"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Strategy identifies which cascade step produced a match.
type Strategy int

const (
	StrategyExact Strategy = iota
	StrategyFuzzy
	StrategyTitleOnly
	StrategyArtistFallback
	StrategyNotFound
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyFuzzy:
		return "fuzzy"
	case StrategyTitleOnly:
		return "title_only"
	case StrategyArtistFallback:
		return "artist_fallback"
	case StrategyNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// MarshalText serializes strategies by name in report files.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText restores a strategy from its name. Unknown names map to
// StrategyNotFound so stale persisted rows never resurrect a bogus match.
func (s *Strategy) UnmarshalText(text []byte) error {
	*s = ParseStrategy(string(text))
	return nil
}

// ParseStrategy is the inverse of [Strategy.String].
func ParseStrategy(name string) Strategy {
	switch name {
	case "exact":
		return StrategyExact
	case "fuzzy":
		return StrategyFuzzy
	case "title_only":
		return StrategyTitleOnly
	case "artist_fallback":
		return StrategyArtistFallback
	default:
		return StrategyNotFound
	}
}

// Combined fuzzy score weights. Title identity matters more than artist
// identity because catalogs frequently list featured or alternate artists.
const (
	titleWeight  = 0.7
	artistWeight = 0.3
)

// MatchResult is the immutable outcome of resolving one descriptor.
// TrackID is empty exactly when Strategy is StrategyNotFound.
type MatchResult struct {
	Strategy   Strategy `json:"strategy"`
	Confidence float64  `json:"confidence"`
	TrackID    string   `json:"track_id,omitempty"`
	Title      string   `json:"title,omitempty"`
	Artist     string   `json:"artist,omitempty"`
}

// Found reports whether the cascade produced a catalog track.
func (m MatchResult) Found() bool {
	return m.Strategy != StrategyNotFound && m.TrackID != ""
}

// Resolver maps one TrackDescriptor to one MatchResult via the strategy
// cascade. All catalog calls go through a single SearchService session and
// are retried with exponential backoff on transient failures.
type Resolver struct {
	service services.SearchService
	config  shared.MatchingConfig
	logger  *log.Logger
	limiter *rate.Limiter
}

func NewResolver(service services.SearchService, config shared.MatchingConfig, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Resolver{
		service: service,
		config:  config,
		logger:  logger,
	}
}

// WithLimiter paces every catalog query (including retries) through the
// given limiter. The limiter is shared with the caller so search and
// mutation traffic draw from one budget.
func (r *Resolver) WithLimiter(limiter *rate.Limiter) *Resolver {
	r.limiter = limiter
	return r
}

type strategyStep struct {
	strategy Strategy
	skip     bool
	run      func(context.Context, library.TrackDescriptor) (*MatchResult, error)
}

// Resolve runs the cascade for one descriptor. Each step is attempted only
// when the prior step produced no result. Descriptors without an artist skip
// the artist-aware steps and go straight to title-only. A nil error with a
// StrategyNotFound result means the cascade completed without a match;
// a non-nil error means a step failed in a way retries could not recover.
func (r *Resolver) Resolve(ctx context.Context, desc library.TrackDescriptor) (MatchResult, error) {
	if desc.Unparseable() {
		return MatchResult{}, fmt.Errorf("%w: %s", shared.ErrUnreadableFile, desc.Path)
	}

	noArtist := desc.Artist == ""
	steps := []strategyStep{
		{StrategyExact, noArtist, r.exact},
		{StrategyFuzzy, noArtist, r.fuzzy},
		{StrategyTitleOnly, false, r.titleOnly},
		{StrategyArtistFallback, noArtist, r.artistFallback},
	}

	for _, step := range steps {
		if step.skip {
			continue
		}

		result, err := step.run(ctx, desc)
		if err != nil {
			return MatchResult{}, err
		}
		if result != nil {
			r.logger.Debug("matched", "track", desc.Display(), "strategy", result.Strategy, "confidence", result.Confidence)
			return *result, nil
		}
	}

	r.logger.Debug("no match", "track", desc.Display())
	return MatchResult{Strategy: StrategyNotFound}, nil
}

// exact accepts the first candidate whose normalized title and artist both
// equal the descriptor's. Case and punctuation never affect the outcome.
func (r *Resolver) exact(ctx context.Context, desc library.TrackDescriptor) (*MatchResult, error) {
	candidates, err := r.search(ctx, func(ctx context.Context) ([]services.Candidate, error) {
		return r.service.SearchByTitleArtist(ctx, desc.Title, desc.Artist)
	})
	if err != nil {
		return nil, err
	}

	wantTitle, wantArtist := Normalize(desc.Title), Normalize(desc.Artist)
	for _, c := range candidates {
		if Normalize(c.Title) == wantTitle && Normalize(c.Artist) == wantArtist {
			return &MatchResult{
				Strategy:   StrategyExact,
				Confidence: 1.0,
				TrackID:    c.ID,
				Title:      c.Title,
				Artist:     c.Artist,
			}, nil
		}
	}
	return nil, nil
}

// fuzzy scores title+artist candidates with a weighted similarity and accepts
// the best one above the configured threshold.
func (r *Resolver) fuzzy(ctx context.Context, desc library.TrackDescriptor) (*MatchResult, error) {
	candidates, err := r.search(ctx, func(ctx context.Context) ([]services.Candidate, error) {
		return r.service.SearchByTitleArtist(ctx, desc.Title, desc.Artist)
	})
	if err != nil {
		return nil, err
	}

	score := func(c services.Candidate) float64 {
		return titleWeight*Similarity(desc.Title, c.Title) + artistWeight*Similarity(desc.Artist, c.Artist)
	}
	return acceptBest(StrategyFuzzy, candidates, score, r.config.FuzzyThreshold, desc.Duration), nil
}

// titleOnly searches by title alone. This is the first strategy attempted for
// descriptors that carry no artist metadata.
func (r *Resolver) titleOnly(ctx context.Context, desc library.TrackDescriptor) (*MatchResult, error) {
	candidates, err := r.search(ctx, func(ctx context.Context) ([]services.Candidate, error) {
		return r.service.SearchByTitle(ctx, desc.Title)
	})
	if err != nil {
		return nil, err
	}

	score := func(c services.Candidate) float64 {
		return Similarity(desc.Title, c.Title)
	}
	return acceptBest(StrategyTitleOnly, candidates, score, r.config.TitleThreshold, desc.Duration), nil
}

// artistFallback lists the artist's tracks and picks the best title match.
func (r *Resolver) artistFallback(ctx context.Context, desc library.TrackDescriptor) (*MatchResult, error) {
	candidates, err := r.search(ctx, func(ctx context.Context) ([]services.Candidate, error) {
		return r.service.SearchByArtist(ctx, desc.Artist)
	})
	if err != nil {
		return nil, err
	}

	score := func(c services.Candidate) float64 {
		return Similarity(desc.Title, c.Title)
	}
	return acceptBest(StrategyArtistFallback, candidates, score, r.config.ArtistThreshold, desc.Duration), nil
}

// acceptBest picks the highest-scoring candidate above threshold. Ties go to
// the candidate with the smallest catalog-duration difference when both sides
// carry duration metadata, otherwise to the earlier candidate since search
// results are relevance-sorted.
func acceptBest(strategy Strategy, candidates []services.Candidate, score func(services.Candidate) float64, threshold float64, wantDuration int) *MatchResult {
	var best services.Candidate
	bestScore := -1.0
	found := false

	for _, c := range candidates {
		s := score(c)
		if s <= threshold {
			continue
		}

		switch {
		case s > bestScore:
			best, bestScore, found = c, s, true
		case s == bestScore && closerDuration(c, best, wantDuration):
			best = c
		}
	}

	if !found {
		return nil
	}
	return &MatchResult{
		Strategy:   strategy,
		Confidence: bestScore,
		TrackID:    best.ID,
		Title:      best.Title,
		Artist:     best.Artist,
	}
}

func closerDuration(challenger, incumbent services.Candidate, want int) bool {
	if want <= 0 || challenger.Duration <= 0 || incumbent.Duration <= 0 {
		return false
	}
	return absDiff(challenger.Duration, want) < absDiff(incumbent.Duration, want)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// search runs one catalog query, retrying transient failures with exponential
// backoff up to the configured attempt limit. Fatal errors (expired or
// rejected credentials, cancellation) are returned immediately so the caller
// can abort the run instead of hammering the service.
func (r *Resolver) search(ctx context.Context, query func(context.Context) ([]services.Candidate, error)) ([]services.Candidate, error) {
	attempts := r.config.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := r.config.Backoff()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		candidates, err := query(ctx)
		if err == nil {
			return candidates, nil
		}
		if !shared.IsTransient(err) {
			return nil, err
		}

		lastErr = err
		if attempt == attempts {
			break
		}

		r.logger.Warn("search failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("search gave up after %d attempts: %w", attempts, lastErr)
}
