package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/crucial707/newsdesk/internal/metrics"
	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule prunes expired sessions once an hour.
const DefaultSweepSchedule = "@every 1h"

// Sweeper periodically removes expired sessions from a Store.
type Sweeper struct {
	store  Store
	logger *slog.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewSweeper returns a Sweeper over store. A nil logger uses slog.Default().
func NewSweeper(store Store, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		store:  store,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start schedules Sweep on the cron spec (e.g. "@every 1h") and starts the scheduler.
func (s *Sweeper) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("session sweeper started", "schedule", schedule)
	return nil
}

// AddFunc schedules an extra maintenance job on the same scheduler.
func (s *Sweeper) AddFunc(schedule string, fn func()) error {
	_, err := s.cron.AddFunc(schedule, fn)
	return err
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep removes expired sessions once.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("session sweep failed", "err", err)
		return 0, err
	}
	metrics.AddSessionsSwept(n)
	if n > 0 {
		s.logger.Info("expired sessions removed", "count", n)
	}
	return n, nil
}
