package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"magiclink/internal/entity"
)

var (
	ErrMagicLinkNotFound = errors.New("magic link not found")
	ErrMagicLinkUsed     = errors.New("magic link already used")
	ErrMagicLinkExpired  = errors.New("magic link expired")
	ErrDuplicateToken    = errors.New("magic link token already exists")
)

type MagicLinkRepository interface {
	Create(ctx context.Context, link entity.MagicLink) error
	// Consume checks existence, prior use and expiry, then marks the link
	// used, as one atomic step. An expired link is deleted.
	Consume(ctx context.Context, token string, now time.Time) (entity.MagicLink, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

// MemoryMagicLinkRepository keeps links in process memory. All access is
// serialized by a single mutex.
type MemoryMagicLinkRepository struct {
	mutex sync.Mutex
	links map[string]entity.MagicLink
}

func NewMemoryMagicLinkRepository() *MemoryMagicLinkRepository {
	return &MemoryMagicLinkRepository{links: make(map[string]entity.MagicLink)}
}

func (r *MemoryMagicLinkRepository) Create(ctx context.Context, link entity.MagicLink) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.links == nil {
		r.links = make(map[string]entity.MagicLink)
	}
	if _, ok := r.links[link.Token]; ok {
		return ErrDuplicateToken
	}
	link.UsedAt = copyTime(link.UsedAt)
	r.links[link.Token] = link
	return nil
}

func (r *MemoryMagicLinkRepository) Consume(ctx context.Context, token string, now time.Time) (entity.MagicLink, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	link, ok := r.links[token]
	if !ok {
		return entity.MagicLink{}, ErrMagicLinkNotFound
	}
	if link.Consumed() {
		return snapshot(link), ErrMagicLinkUsed
	}
	if link.ExpiredAt(now) {
		delete(r.links, token)
		return snapshot(link), ErrMagicLinkExpired
	}

	usedAt := now
	link.UsedAt = &usedAt
	r.links[token] = link
	return snapshot(link), nil
}

func (r *MemoryMagicLinkRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	for token, link := range r.links {
		if link.ExpiredAt(now) {
			delete(r.links, token)
			removed++
		}
	}
	return removed, nil
}

func (r *MemoryMagicLinkRepository) Count(ctx context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.links), nil
}

func snapshot(link entity.MagicLink) entity.MagicLink {
	link.UsedAt = copyTime(link.UsedAt)
	return link
}

func copyTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
