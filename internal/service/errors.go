package service

import (
	"errors"
	"fmt"
)

// Errors returned by the services. Storage errors are translated into
// these before they leave the package; anything else is unexpected.
var (
	ErrInvalidURL      = errors.New("invalid URL")
	ErrOwnLink         = fmt.Errorf("%w: already a short link", ErrInvalidURL)
	ErrInvalidCode     = errors.New("invalid short code")
	ErrCodeTaken       = errors.New("short code already taken")
	ErrNotFound        = errors.New("short code not found")
	ErrUnauthenticated = errors.New("invalid username or password")
	ErrUserExists      = errors.New("user already exists")
	ErrEmptyUsername   = errors.New("username cannot be empty")
)
