package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/athorsen/local2stream/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup walks the user through first-run configuration and writes the
// resulting config file.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
			r.writePlain("Existing config found at %s, values shown as defaults.\n\n", configPath)
		}
	}

	r.writePlainHeader("local2stream setup")
	scanner := bufio.NewScanner(r.input)

	config.Library.Directory = r.prompt(scanner, "Music directory", config.Library.Directory)
	config.Playlist.Name = r.prompt(scanner, "Playlist name", config.Playlist.Name)
	config.Credentials.Spotify.ClientID = r.prompt(scanner, "Spotify client ID", config.Credentials.Spotify.ClientID)
	config.Credentials.Spotify.ClientSecret = r.prompt(scanner, "Spotify client secret", config.Credentials.Spotify.ClientSecret)

	if config.Library.Directory == "" {
		r.logger.Warn("no music directory set, 'l2s scan' and 'l2s transfer run' will need --dir")
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	r.config = config

	r.writePlainln("✓ Configuration saved to %s", configPath)
	if config.Credentials.Spotify.ClientID != "" {
		r.writePlain("Next: run 'l2s auth login' to authenticate with Spotify.\n")
	} else {
		r.writePlain("Add your Spotify credentials to %s, then run 'l2s auth login'.\n", configPath)
	}

	return nil
}

// prompt reads one line, returning the fallback when the user enters nothing.
func (r *Runner) prompt(scanner *bufio.Scanner, label, fallback string) string {
	if fallback != "" {
		r.writePlain("%s [%s]: ", label, fallback)
	} else {
		r.writePlain("%s: ", label)
	}

	if !scanner.Scan() {
		return fallback
	}

	value := strings.TrimSpace(scanner.Text())
	if value == "" {
		return fallback
	}
	return value
}
