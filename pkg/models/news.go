package models

import "time"

// NewsArticle represents a single news item about a coin or the market.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`  // human-readable source name
	Summary     string    `json:"summary"` // plain text, HTML already stripped
	PublishedAt time.Time `json:"published_at"`
}
