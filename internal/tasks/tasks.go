package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/bmpsync/internal/models"
	"github.com/desertthunder/bmpsync/internal/shared"
)

// SongScraper fetches the songs listed at a URL.
type SongScraper interface {
	Scrape(ctx context.Context, url string) ([]models.Song, error)
}

// SongStore is the persistence the engine needs.
type SongStore interface {
	FindUserIDByName(ctx context.Context, name string) (string, error)
	InsertNew(ctx context.Context, songs []models.Song, userID string) (int64, error)
}

// SyncResult is the outcome of a completed run.
type SyncResult struct {
	UserID   string
	Scraped  int   // Songs accepted from the listing
	Inserted int64 // Rows added to the song table
	Songs    []models.Song
}

// SyncOpts configures a [SyncEngine].
type SyncOpts struct {
	URL       string // Listing page
	Submitter string // User new songs are stored under
}

// SyncEngine runs listing-to-database syncs.
type SyncEngine struct {
	scraper SongScraper
	store   SongStore
	opts    SyncOpts
	logger  *log.Logger
}

// NewSyncEngine creates a new SyncEngine with the provided dependencies.
func NewSyncEngine(scraper SongScraper, store SongStore, opts SyncOpts, logger *log.Logger) *SyncEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &SyncEngine{scraper: scraper, store: store, opts: opts, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *SyncEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs one sync. progress may be nil.
func (e *SyncEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	e.sendProgress(progress, lookupUserUpdate(e.opts.Submitter))

	userID, err := e.store.FindUserIDByName(ctx, e.opts.Submitter)
	if err != nil {
		e.logger.Error("error fetching user ID", "name", e.opts.Submitter, "error", err)
		if errors.Is(err, shared.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrUserNotFound, e.opts.Submitter, err)
	}
	e.logger.Info("found user", "name", e.opts.Submitter, "id", userID)

	e.sendProgress(progress, scrapeUpdate(e.opts.URL))

	songs, err := e.scraper.Scrape(ctx, e.opts.URL)
	if err != nil {
		e.logger.Error("scrape failed", "url", e.opts.URL, "error", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrNoSongs, err)
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: listing at %s is empty", shared.ErrNoSongs, e.opts.URL)
	}
	e.logger.Info("scraped songs", "count", len(songs))

	e.sendProgress(progress, persistUpdate(len(songs)))

	inserted, err := e.store.InsertNew(ctx, songs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to save songs: %w", err)
	}

	result := &SyncResult{UserID: userID, Scraped: len(songs), Inserted: inserted, Songs: songs}
	e.sendProgress(progress, reportUpdate(result))

	return result, nil
}
