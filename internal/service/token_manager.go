package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"magiclink/internal/entity"
	"magiclink/internal/repository"
	"magiclink/internal/utils"

	"github.com/sirupsen/logrus"
)

const maxTokenAttempts = 3

var errTokenCollision = errors.New("could not generate a unique token")

// TokenManager owns the lifecycle of magic link tokens: issue, consume and
// eviction of expired records.
type TokenManager struct {
	links  repository.MagicLinkRepository
	clock  Clock
	ttl    time.Duration
	logger logrus.FieldLogger

	newToken func() (string, error)
}

func NewTokenManager(links repository.MagicLinkRepository, clock Clock, ttl time.Duration, logger logrus.FieldLogger) *TokenManager {
	return &TokenManager{
		links:    links,
		clock:    clock,
		ttl:      ttl,
		logger:   logger,
		newToken: generateToken,
	}
}

func (m *TokenManager) Issue(ctx context.Context, email string) (IssuedToken, error) {
	if strings.TrimSpace(email) == "" {
		return IssuedToken{}, ErrInvalidEmail
	}

	if _, err := m.Sweep(ctx); err != nil {
		return IssuedToken{}, err
	}

	now := m.now()
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token, err := m.newToken()
		if err != nil {
			return IssuedToken{}, fmt.Errorf("generate token: %w", err)
		}
		link := entity.MagicLink{
			Token:     token,
			Email:     email,
			CreatedAt: now,
			ExpiresAt: now.Add(m.linkTTL()),
		}
		err = m.links.Create(ctx, link)
		if errors.Is(err, repository.ErrDuplicateToken) {
			continue
		}
		if err != nil {
			return IssuedToken{}, fmt.Errorf("store magic link: %w", err)
		}

		entry := m.log().WithField("token", utils.FingerprintToken(token))
		if active, err := m.links.Count(ctx); err == nil {
			entry = entry.WithField("active", active)
		}
		entry.Info("magic link issued")
		return IssuedToken{Token: token, ExpiresAt: link.ExpiresAt}, nil
	}
	return IssuedToken{}, errTokenCollision
}

// Consume marks token used. Unknown, used and expired tokens are reported as
// outcomes, not errors; an error means the registry misbehaved.
func (m *TokenManager) Consume(ctx context.Context, token string) (ConsumeOutcome, error) {
	link, err := m.links.Consume(ctx, token, m.now())
	switch {
	case err == nil:
		if link.UsedAt == nil {
			return nil, fmt.Errorf("magic link %s consumed without timestamp", utils.FingerprintToken(token))
		}
		m.log().WithField("token", utils.FingerprintToken(token)).Info("magic link consumed")
		return OutcomeSuccess{Email: link.Email, ConsumedAt: *link.UsedAt}, nil
	case errors.Is(err, repository.ErrMagicLinkNotFound):
		return OutcomeNotFound{}, nil
	case errors.Is(err, repository.ErrMagicLinkUsed):
		return OutcomeAlreadyUsed{}, nil
	case errors.Is(err, repository.ErrMagicLinkExpired):
		return OutcomeExpired{}, nil
	default:
		return nil, fmt.Errorf("consume magic link: %w", err)
	}
}

// Sweep removes every link past its TTL, used or not.
func (m *TokenManager) Sweep(ctx context.Context) (int, error) {
	removed, err := m.links.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired magic links: %w", err)
	}
	if removed > 0 {
		m.log().WithField("removed", removed).Info("expired magic links removed")
	}
	return removed, nil
}

func (m *TokenManager) ActiveCount(ctx context.Context) (int, error) {
	return m.links.Count(ctx)
}

func (m *TokenManager) now() time.Time {
	if m.clock == nil {
		return time.Now()
	}
	return m.clock.Now()
}

func (m *TokenManager) linkTTL() time.Duration {
	if m.ttl > 0 {
		return m.ttl
	}
	return DefaultLinkTTL
}

func (m *TokenManager) log() logrus.FieldLogger {
	if m.logger == nil {
		return logrus.StandardLogger()
	}
	return m.logger
}

func generateToken() (string, error) {
	return utils.GenerateRandomToken(utils.TokenSize128)
}
