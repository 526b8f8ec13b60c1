// package services defines interface SearchService for remote music catalogs
//
// Spotify is the shipped implementation; the interface keeps the resolver and
// transfer engine testable against an in-memory catalog.
package services

import (
	"context"

	"golang.org/x/oauth2"
)

// SearchService is the capability surface the matching engine needs from a
// streaming platform: three search shapes plus playlist mutation. All calls
// during a run are serialized by the transfer engine against a single
// authenticated session.
type SearchService interface {
	// Authenticate performs OAuth or token authentication with the service.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// SearchByTitleArtist queries the catalog for tracks matching both fields.
	// Results are assumed relevance-sorted.
	SearchByTitleArtist(ctx context.Context, title, artist string) ([]Candidate, error)

	// SearchByTitle queries the catalog by track title alone.
	SearchByTitle(ctx context.Context, title string) ([]Candidate, error)

	// SearchByArtist queries the catalog for an artist's tracks.
	SearchByArtist(ctx context.Context, artist string) ([]Candidate, error)

	// CreatePlaylist creates a playlist for the authenticated user and
	// returns its catalog ID.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (string, error)

	// AddTracks appends track IDs to a playlist. Callers batch IDs to stay
	// within platform limits.
	AddTracks(ctx context.Context, playlistID string, trackIDs []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService is implemented by services that authenticate via the OAuth2
// authorization-code flow with a local callback server.
type OAuthService interface {
	SearchService

	// GetAuthURL returns the authorization URL for the given CSRF state.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 config for the callback
	// handler's code exchange.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate installs a previously issued token on the service.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}

// Candidate is a track returned by a catalog search, not yet confirmed as a
// match for any local file.
type Candidate struct {
	ID       string
	Title    string
	Artist   string
	Album    string
	Duration int // seconds, 0 when the catalog omits it
}
