// Package cpu
package cpu

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"sysinfo-agent/internal/logger"
)

func NewCollector(fs afero.Fs, procRoot string, log logger.Logger, opts ...Option) *Collector {
	c := &Collector{
		log:   log,
		fs:    fs,
		path:  filepath.Join(procRoot, "stat"),
		delay: DefaultDelay,
		sleep: time.Sleep,
	}
	c.snapshot = c.readSnapshot

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Collector) Collect(ctx context.Context) (float64, error) {
	return c.SampleLoad()
}

// SampleLoad takes two snapshots c.delay apart. It is not cancellable.
func (c *Collector) SampleLoad() (float64, error) {
	c.log.Debug("loading cpu load information", "delay", c.delay)

	first, err := c.snapshot()
	if err != nil {
		return 0, err
	}

	c.sleep(c.delay)

	second, err := c.snapshot()
	if err != nil {
		return 0, err
	}

	load, err := Load(first, second)
	if err != nil {
		return 0, err
	}

	c.log.Info("cpu load sampled", "cpu_load", load)
	return load, nil
}
