package memory

import (
	"fmt"
	"math"
	"strings"

	"sysinfo-agent/internal/domain"
)

// ToKilobytes normalizes a kernel-reported value to kilobytes. The unit is
// matched case-insensitively against kb, mb and gb.
func ToKilobytes(value uint64, unit string) (uint64, error) {
	var factor uint64
	switch strings.ToLower(unit) {
	case "kb":
		return value, nil
	case "mb":
		factor = 1024
	case "gb":
		factor = 1024 * 1024
	default:
		return 0, &domain.UnitError{Unit: unit}
	}

	if value > math.MaxUint64/factor {
		return 0, fmt.Errorf("%w: %d %s", domain.ErrValueOverflow, value, unit)
	}
	return value * factor, nil
}
