package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/bmpsync/internal/models"
	"github.com/desertthunder/bmpsync/internal/tags"
	"golang.org/x/net/html"
)

// DefaultBaseURL is the origin download links on the listing are relative to.
const DefaultBaseURL = "https://songs.bardmusicplayer.com/"

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrListingNotFound  = errors.New("midi list not found on page")
	ErrMalformedEntry   = errors.New("malformed entry")
)

// Listing markup.
const (
	classList    = "midi-list"
	classEntry   = "midi-entry"
	prefixSource = "Source: "
	prefixNote   = "Comment: "
)

var songID = regexp.MustCompile(`dl=(\d+)`)

// Scraper extracts songs from a listing page.
type Scraper struct {
	fetcher *Fetcher
	base    *url.URL
	logger  *log.Logger
}

// NewScraper creates a [Scraper] resolving download links against baseURL.
func NewScraper(fetcher *Fetcher, baseURL string, logger *log.Logger) (*Scraper, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if fetcher == nil {
		fetcher = NewFetcher(FetcherOpts{})
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Scraper{fetcher: fetcher, base: base, logger: logger}, nil
}

// Scrape fetches pageURL and returns its songs in document order.
//
// Failing to fetch the page or find the midi list is an error; a bad entry is logged and skipped.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) ([]models.Song, error) {
	body, err := s.fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	return s.Parse(body)
}

// Parse extracts songs from a listing document.
func (s *Scraper) Parse(body []byte) ([]models.Song, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	list := findFirst(doc, element("", classList))
	if list == nil {
		return nil, ErrListingNotFound
	}

	var songs []models.Song
	for i, entry := range findAll(list, element("", classEntry)) {
		song, ok, err := s.parseEntry(entry)
		if err != nil {
			s.logger.Warn("error processing entry", "position", i, "error", err)
			continue
		}
		if !ok {
			continue
		}

		songs = append(songs, song)
		s.logger.Debugf("processing songs... (%d)", len(songs))
	}

	return songs, nil
}

// parseEntry builds a song from one midi-entry node.
// ok is false when the entry carries no external ID.
func (s *Scraper) parseEntry(entry *html.Node) (song models.Song, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedEntry, r)
		}
	}()

	song.Title = models.Placeholder
	if anchor := findFirst(entry, element("a", "r1", "mtitle")); anchor != nil {
		song.Title = text(anchor)
		if href, found := attr(anchor, "href"); found {
			download, err := s.resolve(href)
			if err != nil {
				return song, false, err
			}
			song.DownloadURL = download
		}
	}

	m := songID.FindStringSubmatch(song.DownloadURL)
	if m == nil {
		return song, false, nil
	}
	song.ExternalID = m[1]

	song.Author = models.Placeholder
	if span := findFirst(entry, element("span", "r1", "mauthor")); span != nil {
		song.Author = text(span)
	}
	if span := findFirst(entry, element("span", "r3")); span != nil {
		song.Source = strings.TrimPrefix(text(span), prefixSource)
	}
	if span := findFirst(entry, element("span", "r4")); span != nil {
		song.Comment = strings.TrimPrefix(text(span), prefixNote)
	}

	song.Tags = tags.Classify(song.Title, song.Comment)
	return song, true, nil
}

// resolve turns a listing href into an absolute download URL.
func (s *Scraper) resolve(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("%w: bad href %q: %v", ErrMalformedEntry, href, err)
	}
	return s.base.ResolveReference(ref).String(), nil
}
