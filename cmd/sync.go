package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/bmpsync/internal/formatter"
	"github.com/desertthunder/bmpsync/internal/repositories"
	"github.com/desertthunder/bmpsync/internal/shared"
	"github.com/desertthunder/bmpsync/internal/tasks"
	"github.com/desertthunder/bmpsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// SyncRun looks up the submitting user, scrapes the listing and stores new songs.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	s, err := r.newScraper()
	if err != nil {
		return err
	}

	db, err := r.openDB(ctx, r.config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	engine := tasks.NewSyncEngine(s, repositories.NewSongRepository(db), tasks.SyncOpts{
		URL:       r.config.Scraper.URL,
		Submitter: r.config.Sync.Submitter,
	}, shared.WithLogger(r.logger, "component", "sync"))

	r.logger.Info("starting sync", "url", r.config.Scraper.URL, "user", r.config.Sync.Submitter)

	progressCh := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Phase == tasks.Report {
				continue
			}
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := engine.Run(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		switch {
		case errors.Is(err, shared.ErrUserNotFound):
			r.writePlain("%s No user with '%s' name found in database. Aborting.\n", ui.Styles.Err("✗"), r.config.Sync.Submitter)
		case errors.Is(err, shared.ErrNoSongs):
			r.writePlain("%s No songs found. Is BMP down?\n", ui.Styles.Err("✗"))
		}
		return err
	}

	if result.Inserted == 0 {
		r.writePlain("%s No new songs to add to the database.\n", ui.Styles.Warn("•"))
	}
	r.writePlain("%s %d scraped, %d new songs stored in database.\n", ui.Styles.OK("✓"), result.Scraped, result.Inserted)

	return nil
}

// SyncScrape scrapes the listing and prints the songs in the requested format.
func (r *Runner) SyncScrape(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputPath := cmd.String("output")

	s, err := r.newScraper()
	if err != nil {
		return err
	}

	r.logger.Info("scraping listing", "url", r.config.Scraper.URL)

	songs, err := s.Scrape(ctx, r.config.Scraper.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNoSongs, err)
	}

	if outputPath != "" {
		if err := formatter.WriteExport(songs, format, outputPath); err != nil {
			return err
		}
		r.logger.Info("songs exported", "count", len(songs), "path", outputPath)
		return r.writePlain("%s %d songs written to %s\n", ui.Styles.OK("✓"), len(songs), outputPath)
	}

	data, err := formatter.Render(songs, format)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
