// Package scheduler wraps the ingestion pipeline with a recurring timer. A
// started scheduler owns exactly one timer; Stop prevents future runs but
// never aborts a pass already in flight.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrAlreadyRunning is returned when Start is called on a running scheduler.
var ErrAlreadyRunning = errors.New("scheduler already running")

// Runner is one ingestion pass.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// Scheduler triggers ingestion immediately on Start and then on every tick
// of a fixed interval.
type Scheduler struct {
	runner   Runner
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// New creates a scheduler that triggers the runner at the given interval.
func New(runner Runner, interval time.Duration) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
	}
}

// Start runs one ingestion pass synchronously, then arms the recurring
// timer. Starting a running scheduler returns ErrAlreadyRunning instead of
// leaking a second timer.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	log.Info().Dur("interval", s.interval).Msg("Scheduler starting, running initial pass")
	if err := s.runner.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Initial ingestion pass failed")
	}

	go s.loop(ctx)
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Info().Msg("Starting scheduled ingestion pass")
			if err := s.runner.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Scheduled ingestion pass failed")
			}
			log.Info().
				Time("next_run", time.Now().Add(s.interval)).
				Msg("Waiting for next ingestion pass")

		case <-s.stop:
			log.Info().Msg("Scheduler stopped")
			return

		case <-ctx.Done():
			log.Info().Err(ctx.Err()).Msg("Scheduler context cancelled")
			return
		}
	}
}

// Stop cancels the timer if armed. Safe to call on a scheduler that was
// never started, and safe to call repeatedly.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	close(s.stop)
	<-s.done
	s.running = false
}
