// package formatter renders scraped songs as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/bmpsync/internal/models"
	"github.com/desertthunder/bmpsync/internal/shared"
)

// Format names accepted by [Render].
const (
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// Formats lists every supported format.
var Formats = []string{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ExportToCSV converts songs to CSV with columns: ID, Title, Author, Source, Comment, Tags, Download
func ExportToCSV(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "Source", "Comment", "Tags", "Download"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{song.ExternalID, song.Title, song.Author, song.Source, song.Comment, song.Tags, song.DownloadURL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts songs to a Markdown table.
func ExportToMarkdown(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Songs\n\n")
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))
	buf.WriteString("| ID | Title | Author | Tags |\n")
	buf.WriteString("|----|-------|--------|------|\n")

	for _, song := range songs {
		title := markdownCell(song.Title)
		if song.DownloadURL != "" {
			title = fmt.Sprintf("[%s](%s)", title, song.DownloadURL)
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			song.ExternalID, title, markdownCell(song.Author), markdownCell(song.Tags)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts songs to plain text, one per line.
func ExportToText(songs []models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))
	for i, song := range songs {
		line := fmt.Sprintf("%d. [%s] %s - %s", i+1, song.ExternalID, song.Author, song.Title)
		if song.Tags != "" {
			line += fmt.Sprintf(" (%s)", song.Tags)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// Render converts songs to the named format.
func Render(songs []models.Song, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return ExportToText(songs)
	case FormatCSV:
		return ExportToCSV(songs)
	case FormatMarkdown, "markdown":
		return ExportToMarkdown(songs)
	case FormatJSON:
		if songs == nil {
			songs = []models.Song{}
		}
		data, err := shared.MarshalJSON(songs, true)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal songs: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q (expected one of %s)",
			shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// WriteExport renders songs and writes them to path.
func WriteExport(songs []models.Song, format, path string) error {
	data, err := Render(songs, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func markdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
