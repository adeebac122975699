package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysinfo-agent/internal/logger"
)

func TestScheduler_RunsImmediatelyAndOnTrigger(t *testing.T) {
	var runs atomic.Int32
	ran := make(chan struct{}, 8)

	s := NewScheduler(time.Hour, logger.NewNop(), func(ctx context.Context) error {
		runs.Add(1)
		ran <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	<-ran
	s.Trigger()
	<-ran

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_Interval(t *testing.T) {
	ran := make(chan struct{}, 8)
	s := NewScheduler(5*time.Millisecond, logger.NewNop(), func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	for i := 0; i < 3; i++ {
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not tick")
		}
	}
}

func TestScheduler_ContinuesAfterFailure(t *testing.T) {
	var runs atomic.Int32
	ran := make(chan struct{}, 8)

	s := NewScheduler(time.Hour, logger.NewNop(), func(ctx context.Context) error {
		runs.Add(1)
		ran <- struct{}{}
		return errors.New("memory: source unavailable")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	<-ran
	s.Trigger()
	<-ran

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_StopsOnFatal(t *testing.T) {
	fatal := errors.New("unauthorized")

	s := NewScheduler(time.Hour, logger.NewNop(), func(ctx context.Context) error {
		return fatal
	})
	s.StopOn(func(err error) bool { return errors.Is(err, fatal) })

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, fatal)
}

func TestScheduler_TriggerCoalesces(t *testing.T) {
	s := NewScheduler(time.Hour, logger.NewNop(), nil)

	s.Trigger()
	s.Trigger()
	s.Trigger()

	assert.Len(t, s.trigger, 1)
}
