package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Matching.FuzzyThreshold != 0.75 {
			t.Errorf("expected fuzzy threshold 0.75, got %f", config.Matching.FuzzyThreshold)
		}

		if config.Matching.TitleThreshold != 0.60 {
			t.Errorf("expected title threshold 0.60, got %f", config.Matching.TitleThreshold)
		}

		if config.Transfer.BatchSize != 100 {
			t.Errorf("expected batch size 100, got %d", config.Transfer.BatchSize)
		}

		if config.Server.Port != 8888 {
			t.Errorf("expected server port 8888, got %d", config.Server.Port)
		}

		if config.Playlist.Name != "Local2Stream Collection" {
			t.Errorf("expected default playlist name, got %s", config.Playlist.Name)
		}

		if !config.Cache.Enabled {
			t.Error("expected cache enabled by default")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Cache.Path != defaultConfig.Cache.Path {
			t.Errorf("created config cache path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[library]
directory = "/home/user/Music"

[playlist]
name = "Road Trip"
public = true

[matching]
fuzzy_threshold = 0.8
title_threshold = 0.5
artist_threshold = 0.4
max_attempts = 5

[transfer]
batch_size = 50
rate_limit = 2.5

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:8888/callback"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Library.Directory != "/home/user/Music" {
			t.Errorf("expected library directory /home/user/Music, got %s", config.Library.Directory)
		}

		if config.Matching.FuzzyThreshold != 0.8 {
			t.Errorf("expected fuzzy threshold 0.8, got %f", config.Matching.FuzzyThreshold)
		}

		if config.Transfer.BatchSize != 50 {
			t.Errorf("expected batch size 50, got %d", config.Transfer.BatchSize)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("SaveConfig round trips", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Library.Directory = "/tmp/music"
		config.Playlist.Name = "Saved"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Library.Directory != "/tmp/music" {
			t.Errorf("expected saved directory, got %s", loaded.Library.Directory)
		}
		if loaded.Playlist.Name != "Saved" {
			t.Errorf("expected saved playlist name, got %s", loaded.Playlist.Name)
		}
	})
}

func TestSpotifyConfigToken(t *testing.T) {
	t.Run("Update stores token fields", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		creds := SpotifyConfig{}

		err := creds.Update(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       expiry,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		token := creds.Token()
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("token fields not preserved: %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})

	t.Run("Update rejects empty token", func(t *testing.T) {
		creds := SpotifyConfig{}
		if err := creds.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
		if err := creds.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty access token")
		}
	})

	t.Run("Update keeps existing refresh token", func(t *testing.T) {
		creds := SpotifyConfig{RefreshToken: "original"}
		if err := creds.Update(&oauth2.Token{AccessToken: "new"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if creds.RefreshToken != "original" {
			t.Errorf("expected refresh token preserved, got %s", creds.RefreshToken)
		}
	})
}
