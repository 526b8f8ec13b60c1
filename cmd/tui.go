package main

import (
	"context"
	"fmt"

	"github.com/athorsen/local2stream/internal/repositories"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/athorsen/local2stream/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for library transfer.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	if dir == "" {
		dir = r.config.Library.Directory
	}
	if dir == "" {
		return fmt.Errorf("%w: no directory given and library.directory not configured", shared.ErrMissingArgument)
	}

	playlistName := cmd.String("playlist")
	if playlistName == "" {
		playlistName = r.config.Playlist.Name
	}

	if r.engine == nil {
		return fmt.Errorf("%w: Spotify service not initialized, run 'l2s auth login' first", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/l2s-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine := r.engine
	if r.config.Cache.Enabled {
		if db, err := r.openDatabase(); err != nil {
			fileLogger.Warnf("match cache unavailable: %v", err)
		} else {
			defer db.Close()
			engine = engine.WithCache(repositories.NewMatchRepository(db))
		}
	}

	model := ui.NewModel(ctx, engine, dir, playlistName)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
