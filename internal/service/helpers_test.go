package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"shorter/internal/cache"
	"shorter/internal/entities"
	"shorter/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testOwner = &entities.User{ID: 1, Username: "jimmy"}

// stubURLRepo delegates to an in-memory repository unless a hook is set
type stubURLRepo struct {
	*repository.MemoryURLRepository

	mu             sync.Mutex
	findCalls      int
	stored         int // rows added minus rows discarded, pending ones included
	discarded      []int64
	createPending  func(ctx context.Context, longURL string, createdBy int64) (int64, error)
	finalizeCode   func(ctx context.Context, id int64, code string) (*entities.URL, error)
	findByCode     func(ctx context.Context, code string) (*entities.URL, error)
	incrementCount func(ctx context.Context, id int64) error
}

func newStubURLRepo() *stubURLRepo {
	return &stubURLRepo{MemoryURLRepository: repository.NewMemoryURLRepository()}
}

func (r *stubURLRepo) CreatePending(ctx context.Context, longURL string, createdBy int64) (int64, error) {
	if r.createPending != nil {
		return r.createPending(ctx, longURL, createdBy)
	}
	id, err := r.MemoryURLRepository.CreatePending(ctx, longURL, createdBy)
	if err == nil {
		r.addStored(1)
	}
	return id, err
}

func (r *stubURLRepo) InsertWithCode(ctx context.Context, longURL string, createdBy int64, code string) (*entities.URL, error) {
	link, err := r.MemoryURLRepository.InsertWithCode(ctx, longURL, createdBy, code)
	if err == nil {
		r.addStored(1)
	}
	return link, err
}

func (r *stubURLRepo) FinalizeCode(ctx context.Context, id int64, code string) (*entities.URL, error) {
	if r.finalizeCode != nil {
		return r.finalizeCode(ctx, id, code)
	}
	return r.MemoryURLRepository.FinalizeCode(ctx, id, code)
}

func (r *stubURLRepo) DiscardPending(ctx context.Context, id int64) error {
	r.mu.Lock()
	r.discarded = append(r.discarded, id)
	r.mu.Unlock()
	if err := r.MemoryURLRepository.DiscardPending(ctx, id); err != nil {
		return err
	}
	r.addStored(-1)
	return nil
}

func (r *stubURLRepo) FindByCode(ctx context.Context, code string) (*entities.URL, error) {
	r.mu.Lock()
	r.findCalls++
	r.mu.Unlock()
	if r.findByCode != nil {
		return r.findByCode(ctx, code)
	}
	return r.MemoryURLRepository.FindByCode(ctx, code)
}

func (r *stubURLRepo) IncrementAccess(ctx context.Context, id int64) error {
	if r.incrementCount != nil {
		return r.incrementCount(ctx, id)
	}
	return r.MemoryURLRepository.IncrementAccess(ctx, id)
}

func (r *stubURLRepo) addStored(delta int) {
	r.mu.Lock()
	r.stored += delta
	r.mu.Unlock()
}

// Stored returns the number of rows held, pending ones included
func (r *stubURLRepo) Stored() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stored
}

func (r *stubURLRepo) FindCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findCalls
}

// memoryCache is a map backed cache.LinkCache
type memoryCache struct {
	mu     sync.Mutex
	values map[string]cache.Link
	err    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]cache.Link)}
}

func (c *memoryCache) GetLink(ctx context.Context, code string) (cache.Link, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return cache.Link{}, c.err
	}
	link, ok := c.values[code]
	if !ok {
		return cache.Link{}, cache.ErrMiss
	}
	return link, nil
}

func (c *memoryCache) SetLink(ctx context.Context, code string, link cache.Link) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[code] = link
	return nil
}

func (c *memoryCache) Close() error { return nil }

var errStoreDown = errors.New("store down")
