package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/athorsen/local2stream/internal/shared"
	"golang.org/x/oauth2"
)

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			credentials := map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
				"redirect_uri":  "http://localhost:8888/callback",
			}

			srv, err := NewSpotifyService(credentials)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv == nil {
				t.Fatal("expected service to be created")
			}

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{
				"client_secret": "test_client_secret",
			})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected missing credentials error, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{
				"client_id": "test_client_id",
			})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected missing credentials error, got %v", err)
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.config.RedirectURL != "http://localhost:8888/callback" {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("GetAuthURL", func(t *testing.T) {
		srv := mustService(t)

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "accounts.spotify.com") {
			t.Error("auth URL should contain Spotify domain")
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("WithAccessToken", func(t *testing.T) {
			srv := mustService(t)
			err := srv.Authenticate(context.Background(), map[string]string{
				"access_token": "test_access_token",
			})
			if err != nil {
				t.Errorf("expected no error with access token, got %v", err)
			}
			if srv.token == nil || srv.token.AccessToken != "test_access_token" {
				t.Errorf("expected token to be installed, got %+v", srv.token)
			}
		})

		t.Run("WithoutTokenOrCode", func(t *testing.T) {
			srv := mustService(t)
			err := srv.Authenticate(context.Background(), map[string]string{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected missing credentials error, got %v", err)
			}
		})
	})

	t.Run("OAuthenticate rejects empty token", func(t *testing.T) {
		srv := mustService(t)
		if err := srv.OAuthenticate(context.Background(), nil); err == nil {
			t.Error("expected error for nil token")
		}
		if err := srv.OAuthenticate(context.Background(), &oauth2.Token{}); err == nil {
			t.Error("expected error for empty access token")
		}
	})

	t.Run("Unauthenticated request fails", func(t *testing.T) {
		srv := mustService(t)
		_, err := srv.SearchByTitle(context.Background(), "Time")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated error, got %v", err)
		}
	})
}

func TestStatusError(t *testing.T) {
	tc := []struct {
		code int
		want error
	}{
		{200, nil},
		{201, nil},
		{401, shared.ErrTokenExpired},
		{403, shared.ErrAuthFailed},
		{429, shared.ErrRateLimited},
		{500, shared.ErrServiceUnavailable},
		{503, shared.ErrServiceUnavailable},
		{404, shared.ErrAPIRequest},
	}

	for _, tt := range tc {
		t.Run(fmt.Sprintf("status %d", tt.code), func(t *testing.T) {
			err := statusError(tt.code)
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("statusError(%d) = %v, want %v", tt.code, err, tt.want)
			}
		})
	}
}

func TestSpotifyTrackCandidate(t *testing.T) {
	track := SpotifyTrack{
		ID:         "abc123",
		Name:       "Time",
		Artists:    []SpotifyArtist{{Name: "Pink Floyd"}, {Name: "Other"}},
		Album:      SpotifyAlbum{Name: "The Dark Side of the Moon"},
		DurationMS: 413000,
	}

	c := track.Candidate()
	if c.ID != "abc123" || c.Title != "Time" || c.Artist != "Pink Floyd" {
		t.Errorf("unexpected candidate: %+v", c)
	}
	if c.Duration != 413 {
		t.Errorf("expected duration 413s, got %d", c.Duration)
	}

	empty := SpotifyTrack{ID: "x", Name: "Solo"}
	if got := empty.Candidate(); got.Artist != "" {
		t.Errorf("expected empty artist, got %q", got.Artist)
	}
}

// spotifyTestServer stands in for the Spotify API; the transport rewrites
// requests to hit the local listener.
func spotifyTestServer(t *testing.T, handler http.HandlerFunc) *SpotifyService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	srv := mustService(t)
	srv.token = &oauth2.Token{AccessToken: "test_token"}
	srv.httpClient = &http.Client{Transport: rewriteTransport{base: ts.URL}}
	return srv
}

type rewriteTransport struct {
	base string
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = strings.TrimPrefix(rt.base, "http://")
	req.URL.Path = strings.TrimPrefix(req.URL.Path, "/v1")
	return http.DefaultTransport.RoundTrip(req)
}

func TestSpotifySearch(t *testing.T) {
	t.Run("parses candidates", func(t *testing.T) {
		srv := spotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("type"); got != "track" {
				t.Errorf("expected type=track, got %s", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"tracks": map[string]any{
					"items": []map[string]any{
						{
							"id":          "t1",
							"name":        "Time",
							"duration_ms": 413000,
							"artists":     []map[string]any{{"name": "Pink Floyd"}},
							"album":       map[string]any{"name": "The Dark Side of the Moon"},
						},
					},
				},
			})
		})

		candidates, err := srv.SearchByTitleArtist(context.Background(), "Time", "Pink Floyd")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].ID != "t1" || candidates[0].Duration != 413 {
			t.Errorf("unexpected candidate: %+v", candidates[0])
		}
	})

	t.Run("maps rate limit status", func(t *testing.T) {
		srv := spotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := srv.SearchByTitle(context.Background(), "Time")
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected rate limit error, got %v", err)
		}
	})

	t.Run("maps expired token status", func(t *testing.T) {
		srv := spotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := srv.SearchByArtist(context.Background(), "Pink Floyd")
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected token expired error, got %v", err)
		}
	})
}

func TestSpotifyPlaylistOps(t *testing.T) {
	t.Run("CreatePlaylist fetches user then posts", func(t *testing.T) {
		var createdBody map[string]any
		srv := spotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == "/me":
				json.NewEncoder(w).Encode(SpotifyUser{ID: "user1"})
			case r.URL.Path == "/users/user1/playlists" && r.Method == http.MethodPost:
				json.NewDecoder(r.Body).Decode(&createdBody)
				json.NewEncoder(w).Encode(SpotifyPlaylist{ID: "pl1", Name: "Collection"})
			default:
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		})

		id, err := srv.CreatePlaylist(context.Background(), "Collection", "desc", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "pl1" {
			t.Errorf("expected playlist ID pl1, got %s", id)
		}
		if createdBody["name"] != "Collection" || createdBody["public"] != false {
			t.Errorf("unexpected creation body: %+v", createdBody)
		}
	})

	t.Run("AddTracks posts spotify URIs", func(t *testing.T) {
		var body struct {
			URIs []string `json:"uris"`
		}
		srv := spotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/pl1/tracks" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusCreated)
		})

		if err := srv.AddTracks(context.Background(), "pl1", []string{"t1", "t2"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body.URIs) != 2 || body.URIs[0] != "spotify:track:t1" {
			t.Errorf("unexpected URIs: %v", body.URIs)
		}
	})

	t.Run("AddTracks with no IDs is a no-op", func(t *testing.T) {
		srv := mustService(t)
		if err := srv.AddTracks(context.Background(), "pl1", nil); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("AddTracks enforces batch ceiling", func(t *testing.T) {
		srv := mustService(t)
		srv.token = &oauth2.Token{AccessToken: "test_token"}
		ids := make([]string, 101)
		for i := range ids {
			ids[i] = fmt.Sprintf("t%d", i)
		}
		if err := srv.AddTracks(context.Background(), "pl1", ids); err == nil {
			t.Error("expected error for oversized batch")
		}
	})

	t.Run("AddTracks failure wraps playlist mutation error", func(t *testing.T) {
		srv := spotifyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		err := srv.AddTracks(context.Background(), "pl1", []string{"t1"})
		if !errors.Is(err, shared.ErrPlaylistMutation) {
			t.Errorf("expected playlist mutation error, got %v", err)
		}
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected wrapped status error, got %v", err)
		}
	})
}

func mustService(t *testing.T) *SpotifyService {
	t.Helper()
	srv, err := NewSpotifyService(map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv
}
