package entities

// User represents a user entity in the database
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Don't expose password hash in JSON
}
