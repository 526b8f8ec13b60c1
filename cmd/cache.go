package main

import (
	"context"

	"github.com/athorsen/local2stream/internal/repositories"
	"github.com/urfave/cli/v3"
)

// CacheStatus shows how many resolved matches are cached locally.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := repositories.NewMatchRepository(db).Count()
	if err != nil {
		return err
	}

	r.writePlain("Cache: %s\n", r.config.Cache.Path)
	r.writePlain("Cached matches: %d\n", count)
	return nil
}

// CacheClear deletes all cached matches so the next run resolves everything
// against the catalog again.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewMatchRepository(db).Clear(); err != nil {
		return err
	}

	r.logger.Info("match cache cleared")
	return r.writePlain("✓ Match cache cleared\n")
}
