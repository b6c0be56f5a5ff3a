package service

import (
	"sync"
	"testing"
	"time"

	"magiclink/internal/repository"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.now = c.now.Add(d)
}

type tokenFixture struct {
	links   *repository.MemoryMagicLinkRepository
	clock   *fakeClock
	manager *TokenManager
	logs    *logtest.Hook
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	links := repository.NewMemoryMagicLinkRepository()
	clock := newFakeClock()
	return &tokenFixture{
		links:   links,
		clock:   clock,
		manager: NewTokenManager(links, clock, DefaultLinkTTL, logger),
		logs:    hook,
	}
}

func tokenSequence(tokens ...string) func() (string, error) {
	var mutex sync.Mutex
	index := 0
	return func() (string, error) {
		mutex.Lock()
		defer mutex.Unlock()
		token := tokens[index%len(tokens)]
		index++
		return token, nil
	}
}
