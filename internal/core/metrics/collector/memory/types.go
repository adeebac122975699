package memory

import (
	"github.com/spf13/afero"

	"sysinfo-agent/internal/logger"
)

type Collector struct {
	log  logger.Logger
	fs   afero.Fs
	path string
}

// Only these two rows of the memory-status source are read.
const (
	labelMemTotal = "MemTotal"
	labelMemFree  = "MemFree"
)

// maxMeminfoLines bounds the scan instead of end-of-stream, which procfs
// files do not report reliably.
const maxMeminfoLines = 100
