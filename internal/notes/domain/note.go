package domain

import "time"

type Note struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SearchMatch is one scored hit of a semantic search.
type SearchMatch struct {
	ID    string
	Title string
	Score float64
}
