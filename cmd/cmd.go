// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/bmpsync/internal/formatter"
	"github.com/urfave/cli/v3"
)

// app returns the root command. Run without a subcommand it performs a sync.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "bmpsync",
		Usage:   "Sync new songs from the Bard Music Player listing into the song database",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a dotenv file with the SCRAPPER_DB_* credentials",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Listing page to scrape (overrides scraper.url)",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Name of the user songs are stored under (overrides sync.submitter)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Before,
		Action:   r.SyncRun,
		Commands: r.register(),
	}
}

// syncCommand handles listing sync operations
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Scrape the listing and store new songs",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run a full sync (the default when no command is given)",
				Action: r.SyncRun,
			},
			{
				Name:  "scrape",
				Usage: "Scrape the listing and print the songs without touching the database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: " + strings.Join(formatter.Formats, ", "),
						Value:   formatter.FormatText,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to this file instead of stdout",
					},
				},
				Action: r.SyncScrape,
			},
		},
	}
}

// tagsCommand exposes the ensemble tag classifier
func tagsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "Ensemble tag operations",
		Commands: []*cli.Command{
			{
				Name:  "classify",
				Usage: "Print the ensemble tags inferred from a title and comment",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "title",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "comment",
						Usage: "Song comment (track listings like T1 T2 count as performers)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TagsClassify,
			},
		},
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the user and song tables if they do not exist (local development)",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config file from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path of the config file to create",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
