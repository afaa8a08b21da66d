package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fiscalhq/ledger/internal/usecase"
)

// CarryforwardRunner runs a batch carryforward for a given date.
type CarryforwardRunner interface {
	RunForAll(ctx context.Context, carryforwardDate time.Time) (usecase.BatchResult, error)
}

// Scheduler periodically runs balance carryforwards for all hosted
// collectives. Each run targets the previous UTC day, so running more
// often than daily is harmless: repeat runs count as skipped.
type Scheduler struct {
	runner   CarryforwardRunner
	logger   zerolog.Logger
	interval time.Duration
}

// Config for Scheduler.
type Config struct {
	Runner   CarryforwardRunner
	Logger   zerolog.Logger
	Interval time.Duration
}

// New creates a new Scheduler.
func New(cfg Config) *Scheduler {
	if cfg.Interval == 0 {
		cfg.Interval = 24 * time.Hour
	}

	return &Scheduler{
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		interval: cfg.Interval,
	}
}

// Start runs the scheduler until the context is cancelled. A batch run
// failure is logged and the loop keeps going; the next tick retries.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("carryforward scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("carryforward scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	date := time.Now().UTC().AddDate(0, 0, -1)

	res, err := s.runner.RunForAll(ctx, date)
	if err != nil {
		s.logger.Error().Err(err).Msg("batch carryforward failed")
		return
	}

	s.logger.Info().
		Str("date", date.Format("2006-01-02")).
		Int("processed", res.Processed).
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("batch carryforward completed")
}
