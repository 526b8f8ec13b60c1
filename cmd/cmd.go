// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles first-run configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Interactive first-run configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles Spotify authentication.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the saved authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// scanCommand lists the local library without touching the network.
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan the local music library and list track metadata",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory to scan (default: library.directory from config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output descriptors as JSON",
			},
		},
		Action: r.Scan,
	}
}

// transferCommand handles library-to-playlist transfer runs.
func transferCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "Transfer the local library to a Spotify playlist",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Scan, match, and add tracks to a new playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Directory to scan (default: library.directory from config)",
					},
					&cli.StringFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist name (default: playlist.name from config)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for report artifacts",
						Value:   "reports",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "Skip the persistent match cache",
					},
				},
				Action: r.TransferRun,
			},
		},
	}
}

// historyCommand lists past transfer runs from the local database.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent transfer runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output runs as JSON",
			},
		},
		Action: r.History,
	}
}

// cacheCommand manages the persistent match cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the persistent match cache",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the number of cached matches",
				Action: r.CacheStatus,
			},
			{
				Name:   "clear",
				Usage:  "Delete all cached matches",
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive transfers.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for library transfer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory to scan (default: library.directory from config)",
			},
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist name (default: playlist.name from config)",
			},
		},
		Action: r.TUI,
	}
}
