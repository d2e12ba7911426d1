package entities

import "time"

// URL represents a shortened URL entity in the database
type URL struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	ShortCode string    `json:"short"` // empty while the row is pending
	CreatedBy int64     `json:"created_by"`
	Accessed  int64     `json:"accessed"`
	CreatedAt time.Time `json:"created_at"`
}

// Pending reports whether the row has not been given a short code yet
func (u *URL) Pending() bool {
	return u.ShortCode == ""
}
