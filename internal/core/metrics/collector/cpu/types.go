package cpu

import (
	"time"

	"github.com/spf13/afero"

	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

// SnapshotFunc takes one reading of the aggregate cpu counters.
type SnapshotFunc func() (domain.CPUSnapshot, error)

// SleepFunc suspends between the two readings.
type SleepFunc func(time.Duration)

type Collector struct {
	log      logger.Logger
	fs       afero.Fs
	path     string
	delay    time.Duration
	snapshot SnapshotFunc
	sleep    SleepFunc
}

type Option func(*Collector)

func WithDelay(d time.Duration) Option {
	return func(c *Collector) {
		c.delay = d
	}
}

func WithSnapshotFunc(f SnapshotFunc) Option {
	return func(c *Collector) {
		c.snapshot = f
	}
}

func WithSleepFunc(f SleepFunc) Option {
	return func(c *Collector) {
		c.sleep = f
	}
}

// cpu user nice system idle iowait irq softirq [steal guest guest_nice]
const statFields = 7

const DefaultDelay = 100 * time.Millisecond
