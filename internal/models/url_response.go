package models

import (
	"time"

	"shorter/internal/entities"
)

// CreateURLResponse is returned after a short link is created
type CreateURLResponse struct {
	URL      string `json:"url"`
	ShortURL string `json:"shorturl"` // the short code
}

// URLResponse describes a stored link
type URLResponse struct {
	URL      string    `json:"url"`
	ShortURL string    `json:"shorturl"`
	Accessed int64     `json:"accessed"`
	Created  time.Time `json:"created"`
}

// NewURLResponse converts a stored link for output
func NewURLResponse(link *entities.URL) URLResponse {
	return URLResponse{
		URL:      link.URL,
		ShortURL: link.ShortCode,
		Accessed: link.Accessed,
		Created:  link.CreatedAt.UTC(),
	}
}

// NewURLListResponse converts links keeping their order. It never returns nil.
func NewURLListResponse(links []*entities.URL) []URLResponse {
	out := make([]URLResponse, 0, len(links))
	for _, link := range links {
		out = append(out, NewURLResponse(link))
	}
	return out
}
