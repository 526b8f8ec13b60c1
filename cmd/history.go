package main

import (
	"context"

	"github.com/athorsen/local2stream/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History prints recent transfer runs from the local database.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).Recent(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		r.writePlain("No transfer runs recorded yet.\n")
		return nil
	}

	r.writePlainHeader("Transfer history")
	for _, run := range runs {
		r.writePlain("%s  %q\n", run.StartedAt.Format("2006-01-02 15:04"), run.PlaylistName)
		r.writePlain("    scanned %d, added %d, not found %d, errors %d",
			run.TotalScanned, run.Added, run.NotFound, run.Errors)
		if run.Cancelled {
			r.writePlain(" (cancelled)")
		}
		r.writePlain("\n")
	}

	return nil
}
