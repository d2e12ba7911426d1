package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shorter/internal/entities"
)

// URLRepository defines the interface for URL database operations.
// Every method is a single statement and therefore its own transaction.
type URLRepository interface {
	// CreatePending inserts a row without a short code and returns its new id
	CreatePending(ctx context.Context, longURL string, createdBy int64) (int64, error)
	// FinalizeCode sets the short code of a pending row
	FinalizeCode(ctx context.Context, id int64, code string) (*entities.URL, error)
	// DiscardPending removes a row that never received a short code
	DiscardPending(ctx context.Context, id int64) error
	// InsertWithCode inserts a complete row in one statement
	InsertWithCode(ctx context.Context, longURL string, createdBy int64, code string) (*entities.URL, error)
	FindByCode(ctx context.Context, code string) (*entities.URL, error)
	// FindByOwner returns the finalized rows of a user in insertion order
	FindByOwner(ctx context.Context, userID int64) ([]*entities.URL, error)
	// IncrementAccess adds one to the access counter inside the database
	IncrementAccess(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

type urlRepository struct {
	db *sql.DB
}

// NewURLRepository creates a new URL repository
func NewURLRepository(db *sql.DB) URLRepository {
	return &urlRepository{db: db}
}

const urlColumns = `id, url, short, created_by, accessed, created_at`

// CreatePending inserts a new URL row and lets the sequence pick its id
func (r *urlRepository) CreatePending(ctx context.Context, longURL string, createdBy int64) (int64, error) {
	query := `
		INSERT INTO urls (url, created_by)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, longURL, createdBy).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create URL: %w", err)
	}
	return id, nil
}

// FinalizeCode assigns the short code; the unique index on short decides collisions
func (r *urlRepository) FinalizeCode(ctx context.Context, id int64, code string) (*entities.URL, error) {
	query := `
		UPDATE urls
		SET short = $2
		WHERE id = $1 AND short IS NULL
		RETURNING ` + urlColumns

	url, err := scanURL(r.db.QueryRowContext(ctx, query, id, code))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to finalize short code: %w", err)
	}
	return url, nil
}

// DiscardPending deletes a row only while it still has no short code
func (r *urlRepository) DiscardPending(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM urls WHERE id = $1 AND short IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to discard pending URL: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertWithCode inserts a URL with a caller chosen short code
func (r *urlRepository) InsertWithCode(ctx context.Context, longURL string, createdBy int64, code string) (*entities.URL, error) {
	query := `
		INSERT INTO urls (url, short, created_by)
		VALUES ($1, $2, $3)
		RETURNING ` + urlColumns

	url, err := scanURL(r.db.QueryRowContext(ctx, query, longURL, code, createdBy))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create URL: %w", err)
	}
	return url, nil
}

// FindByCode finds a URL by its short code
func (r *urlRepository) FindByCode(ctx context.Context, code string) (*entities.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE short = $1`

	url, err := scanURL(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find URL: %w", err)
	}
	return url, nil
}

// FindByOwner retrieves all URLs created by a user, oldest first
func (r *urlRepository) FindByOwner(ctx context.Context, userID int64) ([]*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE created_by = $1 AND short IS NOT NULL
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get URLs: %w", err)
	}
	defer rows.Close()

	urls := []*entities.URL{}
	for rows.Next() {
		url, err := scanURL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		urls = append(urls, url)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating URLs: %w", err)
	}

	return urls, nil
}

// IncrementAccess bumps the access counter without reading it first
func (r *urlRepository) IncrementAccess(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE urls
		SET accessed = accessed + 1
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to increment access count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping checks the database connection
func (r *urlRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanURL(row scanner) (*entities.URL, error) {
	var (
		url   entities.URL
		short sql.NullString
	)
	err := row.Scan(
		&url.ID,
		&url.URL,
		&short,
		&url.CreatedBy,
		&url.Accessed,
		&url.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	url.ShortCode = short.String
	return &url, nil
}
