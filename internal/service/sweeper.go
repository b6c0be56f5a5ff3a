package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type ExpiredLinkSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Sweeper periodically evicts expired magic links so the in-memory registry
// does not grow without bound between requests.
type Sweeper struct {
	Links    ExpiredLinkSweeper
	Logger   logrus.FieldLogger
	Interval time.Duration

	newTicker func(time.Duration) (<-chan time.Time, func())

	mutex   sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSweeper creates a sweeper running every interval. A non-positive
// interval falls back to DefaultSweepInterval.
func NewSweeper(links ExpiredLinkSweeper, logger logrus.FieldLogger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sweeper{
		Links:     links,
		Logger:    logger,
		Interval:  interval,
		newTicker: realTicker,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the background loop. Calling it more than once has no effect.
func (s *Sweeper) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.started {
		return
	}
	s.started = true

	ticks, stopTicker := s.newTicker(s.Interval)
	go s.run(ticks, stopTicker, s.stopCh, s.doneCh)
	s.Logger.WithField("interval", s.Interval.String()).Info("magic link sweeper started")
}

// Stop ends the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.started {
		return
	}
	s.started = false

	close(s.stopCh)
	<-s.doneCh
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.Logger.Info("magic link sweeper stopped")
}

func (s *Sweeper) run(ticks <-chan time.Time, stopTicker func(), stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	defer stopTicker()

	for {
		select {
		case <-ticks:
			s.RunOnce(context.Background())
		case <-stopCh:
			return
		}
	}
}

// RunOnce performs a single sweep. Failures are logged, never returned.
func (s *Sweeper) RunOnce(ctx context.Context) {
	removed, err := s.Links.Sweep(ctx)
	if err != nil {
		s.Logger.WithError(err).Error("magic link sweep failed")
		return
	}
	s.Logger.WithField("removed", removed).Debug("magic link sweep completed")
}

func realTicker(interval time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}
