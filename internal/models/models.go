package models

import "time"

// Sections partition the catalog. Every card belongs to exactly one.
const (
	SectionForSale = "forsale"
	SectionWanted  = "wanted"
)

// Card is a single catalog entry.
type Card struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"` // public URL or inline data URI
	Meta      []string  `json:"meta"`      // free-text tags: "Raw", "PSA 10", "Japanese", ...
	Sold      bool      `json:"sold"`
	Section   string    `json:"section"`
	CreatedAt time.Time `json:"created_at"`
}

// Persistable reports whether the card has the required fields to be saved.
func (c *Card) Persistable() bool {
	return c.Name != "" && c.ImageURL != ""
}

// SessionRecord is the admin session as stored in the key-value store.
// The session is valid iff the current time is before Expiry.
type SessionRecord struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // epoch milliseconds
}

// LockoutRecord tracks consecutive failed login attempts.
// Until is zero while the attempt count is below the threshold.
type LockoutRecord struct {
	Attempts int   `json:"attempts"`
	Until    int64 `json:"until,omitempty"` // epoch milliseconds
}
