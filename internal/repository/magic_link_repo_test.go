package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"magiclink/internal/entity"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newLink(token string, createdAt time.Time) entity.MagicLink {
	return entity.MagicLink{
		Token:     token,
		Email:     token + "@example.com",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(15 * time.Minute),
	}
}

func TestMemoryMagicLinkRepository_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMagicLinkRepository()

	require.NoError(t, repo.Create(ctx, newLink("a", baseTime)))
	require.ErrorIs(t, repo.Create(ctx, newLink("a", baseTime.Add(time.Minute))), ErrDuplicateToken)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMemoryMagicLinkRepository_ZeroValue(t *testing.T) {
	var repo MemoryMagicLinkRepository
	require.NoError(t, repo.Create(context.Background(), newLink("a", baseTime)))

	link, err := repo.Consume(context.Background(), "a", baseTime)
	require.NoError(t, err)
	require.Equal(t, "a@example.com", link.Email)
}

func TestMemoryMagicLinkRepository_Consume(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		repo := NewMemoryMagicLinkRepository()
		_, err := repo.Consume(ctx, "missing", baseTime)
		require.ErrorIs(t, err, ErrMagicLinkNotFound)
	})

	t.Run("marks used once", func(t *testing.T) {
		repo := NewMemoryMagicLinkRepository()
		require.NoError(t, repo.Create(ctx, newLink("a", baseTime)))

		link, err := repo.Consume(ctx, "a", baseTime.Add(time.Minute))
		require.NoError(t, err)
		require.NotNil(t, link.UsedAt)
		require.Equal(t, baseTime.Add(time.Minute), *link.UsedAt)

		_, err = repo.Consume(ctx, "a", baseTime.Add(2*time.Minute))
		require.ErrorIs(t, err, ErrMagicLinkUsed)
	})

	t.Run("expired link is deleted", func(t *testing.T) {
		repo := NewMemoryMagicLinkRepository()
		require.NoError(t, repo.Create(ctx, newLink("a", baseTime)))

		_, err := repo.Consume(ctx, "a", baseTime.Add(16*time.Minute))
		require.ErrorIs(t, err, ErrMagicLinkExpired)

		_, err = repo.Consume(ctx, "a", baseTime.Add(16*time.Minute))
		require.ErrorIs(t, err, ErrMagicLinkNotFound)
	})

	t.Run("used wins over expired", func(t *testing.T) {
		repo := NewMemoryMagicLinkRepository()
		require.NoError(t, repo.Create(ctx, newLink("a", baseTime)))

		_, err := repo.Consume(ctx, "a", baseTime)
		require.NoError(t, err)

		_, err = repo.Consume(ctx, "a", baseTime.Add(time.Hour))
		require.ErrorIs(t, err, ErrMagicLinkUsed)
	})

	t.Run("returned link is a copy", func(t *testing.T) {
		repo := NewMemoryMagicLinkRepository()
		require.NoError(t, repo.Create(ctx, newLink("a", baseTime)))

		link, err := repo.Consume(ctx, "a", baseTime)
		require.NoError(t, err)
		*link.UsedAt = time.Time{}
		link.Email = "mutated@example.com"

		again, err := repo.Consume(ctx, "a", baseTime)
		require.ErrorIs(t, err, ErrMagicLinkUsed)
		require.Equal(t, "a@example.com", again.Email)
		require.Equal(t, baseTime, *again.UsedAt)
	})
}

func TestMemoryMagicLinkRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMagicLinkRepository()

	require.NoError(t, repo.Create(ctx, newLink("old", baseTime)))
	require.NoError(t, repo.Create(ctx, newLink("old-used", baseTime)))
	require.NoError(t, repo.Create(ctx, newLink("fresh", baseTime.Add(10*time.Minute))))
	require.NoError(t, repo.Create(ctx, newLink("fresh-used", baseTime.Add(10*time.Minute))))

	_, err := repo.Consume(ctx, "old-used", baseTime.Add(time.Minute))
	require.NoError(t, err)
	_, err = repo.Consume(ctx, "fresh-used", baseTime.Add(11*time.Minute))
	require.NoError(t, err)

	now := baseTime.Add(20 * time.Minute)
	removed, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	removed, err = repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Zero(t, removed)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	_, err = repo.Consume(ctx, "fresh", now)
	require.NoError(t, err)
	_, err = repo.Consume(ctx, "fresh-used", now)
	require.ErrorIs(t, err, ErrMagicLinkUsed)
	_, err = repo.Consume(ctx, "old", now)
	require.ErrorIs(t, err, ErrMagicLinkNotFound)
}

func TestMemoryMagicLinkRepository_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMagicLinkRepository()
	require.NoError(t, repo.Create(ctx, newLink("a", baseTime)))

	const workers = 32
	var (
		wg        sync.WaitGroup
		mutex     sync.Mutex
		successes int
		used      int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Consume(ctx, "a", baseTime)
			mutex.Lock()
			defer mutex.Unlock()
			switch err {
			case nil:
				successes++
			case ErrMagicLinkUsed:
				used++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, workers-1, used)
}
