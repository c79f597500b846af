package entities

import "time"

// LibraryEntry is one saved book in a user's library. Entries are
// stored as JSON values in the key-value store, keyed by book ID
// within the user's library namespace.
type LibraryEntry struct {
	BookID  string    `json:"book_id"`
	Title   string    `json:"title"`
	Author  string    `json:"author"`
	CoverURL string   `json:"cover_url,omitempty"`
	TextURL string    `json:"text_url,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// ReadingProgress records the current page for a book. It is
// overwritten on every navigation and never deleted explicitly.
type ReadingProgress struct {
	BookID    string    `json:"book_id"`
	PageIndex int       `json:"page_index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Percent derives the completion percentage for a book with the
// given page count. A zero total yields zero.
func (p ReadingProgress) Percent(totalPages int) float64 {
	if totalPages <= 0 {
		return 0
	}
	return float64(p.PageIndex+1) / float64(totalPages) * 100
}
