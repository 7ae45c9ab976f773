package models

import "time"

// CatalogEntry is a single game record as returned by the external catalog
// search API. Optional fields are zero-valued when the catalog omits them;
// the engines treat absence as "no signal", never as an error.
type CatalogEntry struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Genres      []string   `json:"genres,omitempty"`
	Platforms   []string   `json:"platforms,omitempty"` // vendor spellings, free text
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Popularity  int        `json:"popularity,omitempty"` // e.g. ratings count
	Rating      float64    `json:"rating,omitempty"`     // 0–5, 0 when absent
}

// ReleaseYear returns the release year, or 0 when the release date is unknown.
func (e *CatalogEntry) ReleaseYear() int {
	if e.ReleaseDate == nil {
		return 0
	}
	return e.ReleaseDate.Year()
}

// SearchScore is the component breakdown computed for one CatalogEntry during
// a single ranking pass. It is ephemeral and never persisted.
type SearchScore struct {
	Relevance  float64 `json:"relevance"`
	Popularity float64 `json:"popularity"`
	Recency    float64 `json:"recency"`
	Rating     float64 `json:"rating"`
	Final      float64 `json:"final"`
}

// ScoredEntry pairs a catalog entry with its score breakdown for API responses.
type ScoredEntry struct {
	Entry CatalogEntry `json:"entry"`
	Score SearchScore  `json:"score"`
}
