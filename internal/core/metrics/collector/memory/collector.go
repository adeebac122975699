// Package memory
package memory

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

func NewCollector(fs afero.Fs, procRoot string, log logger.Logger) *Collector {
	return &Collector{
		log:  log,
		fs:   fs,
		path: filepath.Join(procRoot, "meminfo"),
	}
}

func (c *Collector) Collect(ctx context.Context) (float64, error) {
	file, err := c.fs.Open(c.path)
	if err != nil {
		return 0, fmt.Errorf("%w: did not find meminfo file: %w", domain.ErrSourceUnavailable, err)
	}
	defer file.Close()

	load, err := ReadMemoryLoad(file, c.log)
	if err != nil {
		return 0, err
	}

	c.log.Info("memory data loaded", "mem_load", load)
	return load, nil
}
