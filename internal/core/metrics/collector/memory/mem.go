package memory

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

// ReadMemoryLoad returns the percentage of FREE memory reported by a
// meminfo-formatted stream.
func ReadMemoryLoad(r io.Reader, log logger.Logger) (float64, error) {
	counts, err := readMemoryCounts(r, log)
	if err != nil {
		return 0, err
	}

	return float64(counts.FreeKB) / float64(counts.TotalKB) * 100, nil
}

func readMemoryCounts(r io.Reader, log logger.Logger) (domain.MemoryCounts, error) {
	var counts domain.MemoryCounts
	var haveTotal, haveFree bool

	scanner := bufio.NewScanner(r)
	for lines := 0; lines < maxMeminfoLines && !(haveTotal && haveFree); lines++ {
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 {
			continue
		}

		value, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}

		label, unit := fields[0], fields[2]
		log.Debug("meminfo line", "label", label, "value", value, "unit", unit)

		switch {
		case strings.HasPrefix(label, labelMemTotal):
			kb, err := ToKilobytes(value, unit)
			if err != nil {
				return counts, fmt.Errorf("%w in memory info load", err)
			}
			counts.TotalKB, haveTotal = kb, true
			log.Debug("meminfo field found", "label", label, "kb", kb)

		case strings.HasPrefix(label, labelMemFree):
			kb, err := ToKilobytes(value, unit)
			if err != nil {
				return counts, fmt.Errorf("%w in memory info load", err)
			}
			counts.FreeKB, haveFree = kb, true
			log.Debug("meminfo field found", "label", label, "kb", kb)
		}
	}

	if err := scanner.Err(); err != nil {
		return counts, fmt.Errorf("%w: reading meminfo: %w", domain.ErrSourceUnavailable, err)
	}

	switch {
	case !haveTotal && !haveFree:
		return counts, fmt.Errorf("invalid formatting in meminfo: %w", domain.ErrFieldsNotFound)
	case !haveTotal:
		return counts, fmt.Errorf("invalid formatting in meminfo: %w", domain.ErrTotalNotFound)
	case !haveFree:
		return counts, fmt.Errorf("invalid formatting in meminfo: %w", domain.ErrFreeNotFound)
	}

	if counts.FreeKB > counts.TotalKB || counts.TotalKB == 0 {
		return counts, fmt.Errorf("invalid formatting in meminfo: %w (free=%d kB, total=%d kB)",
			domain.ErrInconsistentMemoryData, counts.FreeKB, counts.TotalKB)
	}

	return counts, nil
}
