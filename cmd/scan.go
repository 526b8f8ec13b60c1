package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/athorsen/local2stream/internal/library"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/urfave/cli/v3"
)

// Scan walks the configured music directory and prints the extracted
// track descriptors. No network calls are made.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	if dir == "" {
		dir = r.config.Library.Directory
	}
	if dir == "" {
		return fmt.Errorf("%w: no directory given and library.directory not configured", shared.ErrMissingArgument)
	}

	r.logger.Info("scanning library", "dir", dir)

	tracks, err := library.Scan(dir)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	r.writePlainHeader(fmt.Sprintf("Library: %s", dir))

	unparseable := 0
	for i, track := range tracks {
		if track.Unparseable() {
			unparseable++
			r.writePlain("  %3d. ?? %s (no usable metadata)\n", i+1, filepath.Base(track.Path))
			continue
		}

		r.writePlain("  %3d. %s", i+1, track.Display())
		if track.Album != "" {
			r.writePlain(" [%s]", track.Album)
		}
		if track.Duration > 0 {
			r.writePlain(" (%s)", shared.FormatDuration(track.Duration))
		}
		r.writePlain("\n")
	}

	r.writePlainln("%d tracks found, %d without usable metadata", len(tracks), unparseable)
	return nil
}
