package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/athorsen/local2stream/internal/formatter"
	"github.com/athorsen/local2stream/internal/repositories"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/athorsen/local2stream/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TransferRun scans the library, matches every track against the catalog, and
// adds matches to a new playlist. Report artifacts are written even when the
// run is interrupted or aborts partway.
func (r *Runner) TransferRun(ctx context.Context, cmd *cli.Command) error {
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

	engine := r.engine
	var runs *repositories.RunRepository
	if r.config.Cache.Enabled && !cmd.Bool("no-cache") {
		if db, err := r.openDatabase(); err != nil {
			r.logger.Warnf("match cache unavailable: %v", err)
		} else {
			defer db.Close()
			engine = engine.WithCache(repositories.NewMatchRepository(db))
			runs = repositories.NewRunRepository(db)
		}
	}

	r.logger.Info("starting transfer", "dir", dir, "playlist", playlistName)
	r.writePlain("Transferring %s → playlist %q\n\n", dir, playlistName)

	// Ctrl-C cancels between tracks; the partial report is still written.
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		matching := false
		for update := range progressCh {
			switch update.Phase {
			case tasks.ScanLibrary:
				r.writePlain("📂 %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.MatchTracks:
				// Messages carry their own [step/total] prefix.
				if !matching {
					matching = true
					r.writePlain("\n🔍 Matching %d tracks\n", update.Total)
				}
				r.writePlain("   %s\n", update.Message)
			case tasks.AddTracks:
				r.writePlain("\n➕ %s\n", update.Message)
			}
		}
	}()

	report, err := engine.Run(runCtx, progressCh, dir, playlistName)
	close(progressCh)
	<-drained

	if report != nil {
		outputDir := cmd.String("output")
		if artifacts, writeErr := formatter.WriteReportFiles(report, outputDir); writeErr != nil {
			r.logger.Warnf("failed to write report files: %v", writeErr)
		} else {
			r.writePlainln("Reports written to %s:", outputDir)
			r.writePlain("  %s\n", artifacts.AddedFile)
			r.writePlain("  %s\n", artifacts.NotFoundFile)
			r.writePlain("  %s\n", artifacts.ReportFile)
		}

		if runs != nil {
			if saveErr := runs.Save(report); saveErr != nil {
				r.logger.Warnf("failed to record run: %v", saveErr)
			}
		}

		r.writePlain("\n")
		r.output.Write(formatter.SummaryText(report))
	}

	return err
}
