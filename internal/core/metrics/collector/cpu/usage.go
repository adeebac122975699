package cpu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sysinfo-agent/internal/domain"
)

func (c *Collector) readSnapshot() (domain.CPUSnapshot, error) {
	// Reopen every time so the kernel regenerates the counters.
	file, err := c.fs.Open(c.path)
	if err != nil {
		return domain.CPUSnapshot{}, fmt.Errorf("%w: did not find procstat path %s: %w", domain.ErrSourceUnavailable, c.path, err)
	}
	defer file.Close()

	snap, err := parseSnapshot(file)
	if err != nil {
		return snap, err
	}

	c.log.Debug("cpu cycles read", "total_cycles", snap.TotalCycles, "work_cycles", snap.WorkCycles)
	return snap, nil
}

// parseSnapshot reads the aggregate "cpu" line; per-core "cpuN" lines are skipped.
func parseSnapshot(r io.Reader) (domain.CPUSnapshot, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}

		if len(fields) < statFields+1 {
			return domain.CPUSnapshot{}, fmt.Errorf("%w: expected %d counters, got %d", domain.ErrMalformedCPUStat, statFields, len(fields)-1)
		}

		var counters [statFields]uint64
		for i := range counters {
			v, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return domain.CPUSnapshot{}, fmt.Errorf("%w: %w", domain.ErrMalformedCPUStat, err)
			}
			counters[i] = v
		}

		user, nice, system := counters[0], counters[1], counters[2]
		idle, iowait, irq, softirq := counters[3], counters[4], counters[5], counters[6]

		work := user + nice + system
		return domain.CPUSnapshot{
			WorkCycles:  work,
			TotalCycles: work + idle + iowait + irq + softirq,
		}, nil
	}

	if err := scanner.Err(); err != nil {
		return domain.CPUSnapshot{}, fmt.Errorf("%w: reading procstat: %w", domain.ErrSourceUnavailable, err)
	}

	return domain.CPUSnapshot{}, domain.ErrMalformedCPUStat
}

// Load computes the busy percentage between two snapshots.
func Load(first, second domain.CPUSnapshot) (float64, error) {
	if second.TotalCycles < first.TotalCycles || second.WorkCycles < first.WorkCycles {
		return 0, fmt.Errorf("%w: total %d -> %d, work %d -> %d", domain.ErrInconsistentCPUData,
			first.TotalCycles, second.TotalCycles, first.WorkCycles, second.WorkCycles)
	}

	totalDelta := second.TotalCycles - first.TotalCycles
	workDelta := second.WorkCycles - first.WorkCycles

	if totalDelta == 0 {
		return 0, domain.ErrNoElapsedCycles
	}

	if workDelta > totalDelta {
		return 0, fmt.Errorf("%w: work delta %d exceeds total delta %d", domain.ErrInconsistentCPUData, workDelta, totalDelta)
	}

	return float64(workDelta) / float64(totalDelta) * 100, nil
}
