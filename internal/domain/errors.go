package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable      = errors.New("source unavailable")
	ErrFieldsNotFound         = errors.New("total and free memory not found")
	ErrTotalNotFound          = errors.New("total memory not found")
	ErrFreeNotFound           = errors.New("free memory not found")
	ErrInconsistentMemoryData = errors.New("free memory bigger than total memory")
	ErrUnsupportedUnit        = errors.New("unsupported unit")
	ErrValueOverflow          = errors.New("value overflows kilobytes")
	ErrNoElapsedCycles        = errors.New("no cpu cycles elapsed between samples")
	ErrInconsistentCPUData    = errors.New("cpu counters went backwards")
	ErrMalformedCPUStat       = errors.New("aggregate cpu line not found")
	ErrScanInProgress         = errors.New("scan already in progress")
	ErrInvalidSample          = errors.New("invalid metrics sample")
)

// UnitError reports a unit suffix outside kb, mb and gb.
type UnitError struct {
	Unit string
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("bad formatting in unit conversion = %q", e.Unit)
}

func (e *UnitError) Is(target error) bool {
	return target == ErrUnsupportedUnit
}
