package models

// CreateURLRequest is the body of POST /, sent as a form or as JSON
type CreateURLRequest struct {
	URL      string  `form:"url" json:"url" binding:"required,linkurl"`
	ShortURL *string `form:"shorturl" json:"shorturl" binding:"omitempty,shortcode"` // Optional custom short code
}
