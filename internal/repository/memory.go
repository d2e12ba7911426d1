package repository

import (
	"context"
	"sync"
	"time"

	"shorter/internal/entities"
)

// MemoryURLRepository keeps URLs in process memory with the same
// guarantees as the PostgreSQL tables: sequential ids and unique codes.
type MemoryURLRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*entities.URL
	order  []int64
	byCode map[string]int64
}

// NewMemoryURLRepository creates an empty in-memory URL repository
func NewMemoryURLRepository() *MemoryURLRepository {
	return &MemoryURLRepository{
		rows:   make(map[int64]*entities.URL),
		byCode: make(map[string]int64),
	}
}

// CreatePending allocates the next id for a row without a short code
func (r *MemoryURLRepository) CreatePending(ctx context.Context, longURL string, createdBy int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.rows[id] = &entities.URL{
		ID:        id,
		URL:       longURL,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	r.order = append(r.order, id)
	return id, nil
}

// FinalizeCode sets the short code of a pending row
func (r *MemoryURLRepository) FinalizeCode(ctx context.Context, id int64, code string) (*entities.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok || !row.Pending() {
		return nil, ErrNotFound
	}
	if _, taken := r.byCode[code]; taken {
		return nil, ErrDuplicateCode
	}

	row.ShortCode = code
	r.byCode[code] = id
	urlCopy := *row
	return &urlCopy, nil
}

// DiscardPending removes a row that never received a short code
func (r *MemoryURLRepository) DiscardPending(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok || !row.Pending() {
		return ErrNotFound
	}

	delete(r.rows, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// InsertWithCode inserts a complete row in one step
func (r *MemoryURLRepository) InsertWithCode(ctx context.Context, longURL string, createdBy int64, code string) (*entities.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byCode[code]; taken {
		return nil, ErrDuplicateCode
	}

	r.nextID++
	row := &entities.URL{
		ID:        r.nextID,
		URL:       longURL,
		ShortCode: code,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	r.rows[row.ID] = row
	r.order = append(r.order, row.ID)
	r.byCode[code] = row.ID

	urlCopy := *row
	return &urlCopy, nil
}

// FindByCode returns a copy of the URL with the given short code
func (r *MemoryURLRepository) FindByCode(ctx context.Context, code string) (*entities.URL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	urlCopy := *r.rows[id]
	return &urlCopy, nil
}

// FindByOwner returns the finalized URLs of a user in insertion order
func (r *MemoryURLRepository) FindByOwner(ctx context.Context, userID int64) ([]*entities.URL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	urls := []*entities.URL{}
	for _, id := range r.order {
		row := r.rows[id]
		if row.CreatedBy != userID || row.Pending() {
			continue
		}
		urlCopy := *row
		urls = append(urls, &urlCopy)
	}
	return urls, nil
}

// IncrementAccess adds one to the access counter under the write lock
func (r *MemoryURLRepository) IncrementAccess(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.rows[id]
	if !ok {
		return ErrNotFound
	}
	row.Accessed++
	return nil
}

// Ping always succeeds for the in-memory repository
func (r *MemoryURLRepository) Ping(ctx context.Context) error {
	return nil
}

// MemoryUserRepository keeps users in process memory
type MemoryUserRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byUsername map[string]*entities.User
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byUsername: make(map[string]*entities.User),
	}
}

// Create stores a new user
func (r *MemoryUserRepository) Create(ctx context.Context, username, passwordHash string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[username]; ok {
		return nil, ErrUserExists
	}

	r.nextID++
	user := &entities.User{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	r.byUsername[username] = user

	userCopy := *user
	return &userCopy, nil
}

// FindByUsername finds a user by username
func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	userCopy := *user
	return &userCopy, nil
}
