// Package core
package core

import (
	"context"
	"time"

	"sysinfo-agent/internal/logger"
)

type Scheduler struct {
	interval time.Duration
	log      logger.Logger
	run      func(context.Context) error
	fatal    func(error) bool
	trigger  chan struct{}
}

func NewScheduler(interval time.Duration, log logger.Logger, run func(context.Context) error) *Scheduler {
	return &Scheduler{
		interval: interval,
		log:      log,
		run:      run,
		trigger:  make(chan struct{}, 1),
	}
}

// StopOn makes Start return the first run error for which fn reports true.
func (s *Scheduler) StopOn(fn func(error) bool) {
	s.fatal = fn
}

// Trigger requests an out-of-band run. Requests made while one is already
// pending are coalesced.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
		s.log.Debug("rescan already pending, trigger coalesced")
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.tick(ctx, "startup"); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			if err := s.tick(ctx, "interval"); err != nil {
				return err
			}
		case <-s.trigger:
			if err := s.tick(ctx, "trigger"); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, reason string) error {
	if s.run == nil {
		return nil
	}

	err := s.run(ctx)
	if err == nil {
		return nil
	}

	if s.fatal != nil && s.fatal(err) {
		s.log.Error("rescan failed fatally", "reason", reason, "error", err)
		return err
	}

	s.log.Error("rescan failed", "reason", reason, "error", err)
	return nil
}
