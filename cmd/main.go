package main

import (
	"context"
	"errors"
	"os"

	"github.com/athorsen/local2stream/internal/services"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := defaultConfigPath
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService services.OAuthService
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if config.Credentials.Spotify.AccessToken != "" {
				if err := svc.OAuthenticate(context.Background(), config.Credentials.Spotify.Token()); err != nil {
					logger.Warnf("saved token rejected: %v", err)
				}
			}
			spotifyService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Service:    spotifyService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "l2s",
		Usage:    "Transfer a local music library to a Spotify playlist",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
