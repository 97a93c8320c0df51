package models

// Placeholder fills a title or author missing from the listing.
const Placeholder = "Unknown"

// Song is a scraped listing entry.
type Song struct {
	ExternalID  string `json:"external_id"`  // Numeric ID from the download URL's dl= parameter
	Title       string `json:"title"`        // Defaults to [Placeholder]
	DownloadURL string `json:"download_url"` // Absolute URL, empty if the entry had no link
	Author      string `json:"author"`       // Listing author, defaults to [Placeholder]
	Source      string `json:"source"`
	Comment     string `json:"comment"`
	Tags        string `json:"tags"` // Sorted ensemble tags joined by ", "
}

// PersistedSong is a row of the song table.
type PersistedSong struct {
	Song
	ID     string // Generated v4 UUID
	UserID string // Submitting user's ID
}

// NewPersistedSong wraps s for insertion under the given surrogate ID and user.
func NewPersistedSong(s Song, id, userID string) PersistedSong {
	return PersistedSong{Song: s, ID: id, UserID: userID}
}

// User is an account in the user table.
type User struct {
	ID   string
	Name string
}
