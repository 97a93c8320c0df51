// Package scraper harvests song entries from the Bard Music Player listing page.
//
// A [Scraper] issues one GET through a [Fetcher], parses the document with [golang.org/x/net/html],
// and turns each midi-entry block of the midi-list container into a [models.Song]:
//
//   - title and download link from the a.r1 / a.mtitle anchor (href resolved against the site base)
//   - external ID from the dl= query digits; entries without one are skipped
//   - author from span.r1 / span.mauthor, source from span.r3, comment from span.r4
//   - ensemble tags from [tags.Classify]
//
// A malformed entry is logged and dropped without failing the page.
package scraper
