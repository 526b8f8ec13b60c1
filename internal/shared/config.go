package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Library     LibraryConfig     `toml:"library"`
	Playlist    PlaylistConfig    `toml:"playlist"`
	Matching    MatchingConfig    `toml:"matching"`
	Transfer    TransferConfig    `toml:"transfer"`
	Credentials CredentialsConfig `toml:"credentials"`
	Cache       CacheConfig       `toml:"cache"`
	Server      ServerConfig      `toml:"server"`
}

// LibraryConfig describes the local music collection to scan.
type LibraryConfig struct {
	Directory string `toml:"directory"`
}

// PlaylistConfig describes the playlist populated on the streaming platform.
type PlaylistConfig struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Public      bool   `toml:"public"`
}

// MatchingConfig holds the strategy cascade thresholds. Scores are in [0,1];
// a candidate must exceed the step's threshold to be accepted.
type MatchingConfig struct {
	FuzzyThreshold  float64 `toml:"fuzzy_threshold"`
	TitleThreshold  float64 `toml:"title_threshold"`
	ArtistThreshold float64 `toml:"artist_threshold"`
	MaxAttempts     int     `toml:"max_attempts"`
	RetryBackoffMS  int     `toml:"retry_backoff_ms"`
}

// Backoff returns the base retry delay for transient search failures.
func (m MatchingConfig) Backoff() time.Duration {
	if m.RetryBackoffMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(m.RetryBackoffMS) * time.Millisecond
}

// TransferConfig controls pacing of catalog calls and playlist mutations.
type TransferConfig struct {
	BatchSize int     `toml:"batch_size"`
	RateLimit float64 `toml:"rate_limit"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and saved tokens.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
	TokenExpiry  string `toml:"token_expiry"`
}

// Map flattens the credentials into the map form the services layer expects.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
		"access_token":  s.AccessToken,
		"refresh_token": s.RefreshToken,
	}
}

// Update stores a freshly issued OAuth token back onto the config.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}
	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		s.TokenExpiry = token.Expiry.Format(time.RFC3339)
	}
	return nil
}

// Token rebuilds an [oauth2.Token] from the saved fields.
func (s SpotifyConfig) Token() *oauth2.Token {
	token := &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
	if s.TokenExpiry != "" {
		if expiry, err := time.Parse(time.RFC3339, s.TokenExpiry); err == nil {
			token.Expiry = expiry
		}
	}
	return token
}

// CacheConfig contains match cache settings.
type CacheConfig struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// ServerConfig contains the OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// SaveConfig writes the configuration back to disk as TOML.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
