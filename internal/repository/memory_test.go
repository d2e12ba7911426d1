package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryURLRepository_PendingThenFinalize(t *testing.T) {
	repo := NewMemoryURLRepository()
	ctx := context.Background()

	id, err := repo.CreatePending(ctx, "http://example.com", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = repo.FindByCode(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	url, err := repo.FinalizeCode(ctx, id, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", url.ShortCode)
	assert.Equal(t, "http://example.com", url.URL)
	assert.Equal(t, int64(0), url.Accessed)
	assert.False(t, url.CreatedAt.IsZero())

	t.Run("finalizing twice is rejected", func(t *testing.T) {
		_, err := repo.FinalizeCode(ctx, id, "other")
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := repo.FindByCode(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FinalizeCode(ctx, 999, "zzz")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryURLRepository_FinalizeDuplicate(t *testing.T) {
	repo := NewMemoryURLRepository()
	ctx := context.Background()

	_, err := repo.InsertWithCode(ctx, "http://custom.com", 1, "2")
	require.NoError(t, err)

	id, err := repo.CreatePending(ctx, "http://example.com", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	_, err = repo.FinalizeCode(ctx, id, "2")
	assert.ErrorIs(t, err, ErrDuplicateCode)

	require.NoError(t, repo.DiscardPending(ctx, id))
	assert.Equal(t, 1, repo.Len())

	t.Run("discard only touches pending rows", func(t *testing.T) {
		custom, err := repo.FindByCode(ctx, "2")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.DiscardPending(ctx, custom.ID), ErrNotFound)
	})

	t.Run("ids are not reused", func(t *testing.T) {
		next, err := repo.CreatePending(ctx, "http://example.com", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), next)
	})
}

func TestMemoryURLRepository_InsertWithCode(t *testing.T) {
	repo := NewMemoryURLRepository()
	ctx := context.Background()

	url, err := repo.InsertWithCode(ctx, "http://example.com", 7, "mine")
	require.NoError(t, err)
	assert.Equal(t, "mine", url.ShortCode)
	assert.Equal(t, int64(7), url.CreatedBy)

	_, err = repo.InsertWithCode(ctx, "http://other.com", 8, "mine")
	assert.ErrorIs(t, err, ErrDuplicateCode)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryURLRepository_FindByOwner(t *testing.T) {
	repo := NewMemoryURLRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := repo.CreatePending(ctx, fmt.Sprintf("http://example.com/%d", i), 1)
		require.NoError(t, err)
		_, err = repo.FinalizeCode(ctx, id, fmt.Sprintf("c%d", i))
		require.NoError(t, err)
	}
	_, err := repo.InsertWithCode(ctx, "http://someone-else.com", 2, "theirs")
	require.NoError(t, err)
	_, err = repo.CreatePending(ctx, "http://pending.com", 1)
	require.NoError(t, err)

	urls, err := repo.FindByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, urls, 3)
	for i, u := range urls {
		assert.Equal(t, fmt.Sprintf("c%d", i), u.ShortCode)
	}

	none, err := repo.FindByOwner(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryURLRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryURLRepository()
	ctx := context.Background()

	_, err := repo.InsertWithCode(ctx, "http://example.com", 1, "copy")
	require.NoError(t, err)

	got, err := repo.FindByCode(ctx, "copy")
	require.NoError(t, err)
	got.URL = "http://mutated.com"
	got.Accessed = 100

	again, err := repo.FindByCode(ctx, "copy")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", again.URL)
	assert.Equal(t, int64(0), again.Accessed)
}

func TestMemoryURLRepository_ConcurrentIncrement(t *testing.T) {
	repo := NewMemoryURLRepository()
	ctx := context.Background()

	url, err := repo.InsertWithCode(ctx, "http://example.com", 1, "hot")
	require.NoError(t, err)

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementAccess(ctx, url.ID))
		}()
	}
	wg.Wait()

	got, err := repo.FindByCode(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Accessed)

	assert.ErrorIs(t, repo.IncrementAccess(ctx, 12345), ErrNotFound)
}

func TestMemoryURLRepository_ConcurrentInsertSameCode(t *testing.T) {
	repo := NewMemoryURLRepository()
	ctx := context.Background()

	const n = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.InsertWithCode(ctx, fmt.Sprintf("http://example.com/%d", i), 1, "race")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, ErrDuplicateCode):
				dupes++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, dupes)
}

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Create(ctx, "jimmy", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = repo.Create(ctx, "jimmy", "other")
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := repo.FindByUsername(ctx, "jimmy")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
