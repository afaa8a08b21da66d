package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fiscalhq/ledger/internal/usecase"
)

type stubRunner struct {
	mu    sync.Mutex
	dates []time.Time
	err   error
}

func (s *stubRunner) RunForAll(ctx context.Context, date time.Time) (usecase.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dates = append(s.dates, date)
	if s.err != nil {
		return usecase.BatchResult{}, s.err
	}
	return usecase.BatchResult{Processed: 1, Created: 1}, nil
}

func (s *stubRunner) runCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dates)
}

func TestScheduler_RunsOnStartAndTicks(t *testing.T) {
	runner := &stubRunner{}
	s := New(Config{
		Runner:   runner,
		Logger:   zerolog.Nop(),
		Interval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for runner.runCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("expected at least 2 runs")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScheduler_TargetsPreviousDay(t *testing.T) {
	runner := &stubRunner{}
	s := New(Config{Runner: runner, Logger: zerolog.Nop(), Interval: time.Hour})

	s.runOnce(context.Background())

	want := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	if got := runner.dates[0].Format("2006-01-02"); got != want {
		t.Fatalf("expected run for %s, got %s", want, got)
	}
}

func TestScheduler_KeepsGoingAfterFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("db down")}
	s := New(Config{
		Runner:   runner,
		Logger:   zerolog.Nop(),
		Interval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for runner.runCount() < 2 {
		select {
		case <-deadline:
			t.Fatal("expected scheduler to keep running after failures")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestScheduler_DefaultInterval(t *testing.T) {
	s := New(Config{Runner: &stubRunner{}, Logger: zerolog.Nop()})
	if s.interval != 24*time.Hour {
		t.Fatalf("expected 24h default, got %s", s.interval)
	}
}
