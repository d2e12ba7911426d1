package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Errors returned by every repository implementation
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateCode = errors.New("short code already exists")
	ErrUserExists    = errors.New("username already exists")
)

// uniqueViolation is the PostgreSQL error code for unique_violation
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
