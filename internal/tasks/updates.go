package tasks

import "fmt"

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within the run
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase enumerates the states of a sync run, in order.
type Phase int

const (
	LookupUser Phase = iota
	Scrape
	Persist
	Report
)

func (p Phase) String() string {
	switch p {
	case LookupUser:
		return "lookup_user"
	case Scrape:
		return "scrape"
	case Persist:
		return "persist"
	case Report:
		return "report"
	default:
		return ""
	}
}

const totalPhases = 4

func lookupUserUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupUser,
		Step:    1,
		Total:   totalPhases,
		Message: fmt.Sprintf("Looking up user '%s'...", name),
	}
}

func scrapeUpdate(url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Scrape,
		Step:    2,
		Total:   totalPhases,
		Message: fmt.Sprintf("Scraping %s...", url),
	}
}

func persistUpdate(scraped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Persist,
		Step:    3,
		Total:   totalPhases,
		Message: fmt.Sprintf("Saving new songs out of %d scraped...", scraped),
		Data:    scraped,
	}
}

func reportUpdate(result *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Report,
		Step:    4,
		Total:   totalPhases,
		Message: fmt.Sprintf("%d scraped, %d new", result.Scraped, result.Inserted),
		Data:    result,
	}
}
