package service

import (
	"context"
	"time"

	"github.com/imirazimi/shortlink/internal/app/repository"
	"github.com/imirazimi/shortlink/internal/infra/prometheus"
	"go.uber.org/zap"
)

const defaultSweepInterval = time.Minute

// ExpirySweeper periodically hard-deletes links whose expires_at has
// passed. Expired links already resolve as not-found; the sweeper just
// reclaims the rows (and, via the cascade, their click events).
type ExpirySweeper struct {
	logger   *zap.Logger
	repo     repository.LinkRepository
	interval time.Duration
	stopChan chan struct{}
}

// NewExpirySweeper creates a sweeper running at the given interval
// (defaultSweepInterval when interval <= 0).
func NewExpirySweeper(logger *zap.Logger, repo repository.LinkRepository, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &ExpirySweeper{
		logger:   logger,
		repo:     repo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (s *ExpirySweeper) Start() {
	go s.run()
}

// Stop stops the periodic sweep.
func (s *ExpirySweeper) Stop() {
	close(s.stopChan)
}

func (s *ExpirySweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopChan:
			s.logger.Info("expiry sweeper stopped")
			return
		}
	}
}

func (s *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to delete expired links", zap.Error(err))
		return
	}

	if deleted > 0 {
		prometheus.LinksSwept.Add(float64(deleted))
		s.logger.Info("deleted expired links", zap.Int64("count", deleted))
	}
}
