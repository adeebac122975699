// Package process
package process

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

type Collector struct {
	log  logger.Logger
	fs   afero.Fs
	root string
}

func NewCollector(fs afero.Fs, procRoot string, log logger.Logger) *Collector {
	return &Collector{log: log, fs: fs, root: procRoot}
}

func (c *Collector) Collect(ctx context.Context) (int, error) {
	return c.Count()
}

// Count returns the number of immediate entries of the process root named
// by a decimal pid. Entries such as "self" or "sys" are ignored.
func (c *Collector) Count() (int, error) {
	c.log.Debug("getting loaded processes", "root", c.root)

	entries, err := afero.ReadDir(c.fs, c.root)
	if err != nil {
		return 0, fmt.Errorf("%w: did not find proc directory: %w", domain.ErrSourceUnavailable, err)
	}

	count := 0
	for _, entry := range entries {
		if isPID(entry.Name()) {
			count++
		}
	}

	c.log.Info("running processes counted", "count", count)
	return count, nil
}

func isPID(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return false
		}
	}
	return true
}
