// Spotify API implementation of [SearchService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/athorsen/local2stream/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	searchLimit = 50
)

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyUser represents the authenticated user's profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a created playlist.
type SpotifyPlaylist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type searchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyService implements [SearchService] and [OAuthService] for the
// Spotify Web API. Uses [oauth2] for authentication.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	userID     string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8888/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-modify-public",
			"playlist-modify-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
	}, nil
}

// Authenticate installs credentials on the service. Expects either an
// "access_token" or an "auth_code" to exchange.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		return s.OAuthenticate(ctx, &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		})
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		return s.OAuthenticate(ctx, token)
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 configuration for the callback handler.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// OAuthenticate installs a token on the service. The HTTP client refreshes it
// transparently when a refresh token is present.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidCredentials)
	}
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
	s.userID = ""
	return nil
}

// doRequest performs an authenticated HTTP request against the Spotify API
// and maps failure status codes onto the shared error taxonomy.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode); err != nil {
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError maps a non-2xx status onto the shared error taxonomy so the
// engine can tell fatal auth failures from retryable ones.
func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrTokenExpired, code)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", shared.ErrAuthFailed, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", shared.ErrRateLimited, code)
	case code >= 500:
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, code)
	default:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, code)
	}
}

// search runs a track search with the given query string.
func (s *SpotifyService) search(ctx context.Context, query string) ([]Candidate, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), searchLimit)

	var response searchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(response.Tracks.Items))
	for _, track := range response.Tracks.Items {
		candidates = append(candidates, track.Candidate())
	}
	return candidates, nil
}

// Candidate converts the API track into the service-agnostic form.
func (t SpotifyTrack) Candidate() Candidate {
	c := Candidate{
		ID:       t.ID,
		Title:    t.Name,
		Album:    t.Album.Name,
		Duration: t.DurationMS / 1000,
	}
	if len(t.Artists) > 0 {
		c.Artist = t.Artists[0].Name
	}
	return c
}

// SearchByTitleArtist queries the catalog with field-scoped title and artist terms.
func (s *SpotifyService) SearchByTitleArtist(ctx context.Context, title, artist string) ([]Candidate, error) {
	return s.search(ctx, fmt.Sprintf("track:%q artist:%q", title, artist))
}

// SearchByTitle queries the catalog by title alone.
func (s *SpotifyService) SearchByTitle(ctx context.Context, title string) ([]Candidate, error) {
	return s.search(ctx, fmt.Sprintf("track:%q", title))
}

// SearchByArtist queries the catalog for an artist's tracks.
func (s *SpotifyService) SearchByArtist(ctx context.Context, artist string) ([]Candidate, error) {
	return s.search(ctx, fmt.Sprintf("artist:%q", artist))
}

// currentUserID fetches and caches the authenticated user's profile ID,
// needed for playlist creation.
func (s *SpotifyService) currentUserID(ctx context.Context) (string, error) {
	if s.userID != "" {
		return s.userID, nil
	}

	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", fmt.Errorf("%w: empty user profile", shared.ErrAPIRequest)
	}

	s.userID = user.ID
	return s.userID, nil
}

// CreatePlaylist creates a playlist for the authenticated user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (string, error) {
	userID, err := s.currentUserID(ctx)
	if err != nil {
		return "", err
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &playlist); err != nil {
		return "", err
	}
	if playlist.ID == "" {
		return "", fmt.Errorf("%w: playlist creation returned no ID", shared.ErrAPIRequest)
	}

	return playlist.ID, nil
}

// AddTracks appends the given track IDs to a playlist. Spotify accepts at
// most 100 URIs per request; callers are expected to batch accordingly.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}
	if len(trackIDs) > 100 {
		return fmt.Errorf("%w: maximum 100 tracks per request", shared.ErrInvalidArgument)
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = "spotify:track:" + id
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, map[string]any{"uris": uris}, nil); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrPlaylistMutation, err)
	}
	return nil
}
