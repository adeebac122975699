package domain

import (
	"fmt"
	"math"
)

type MetricsSample struct {
	ClientID       int     `json:"id"`
	MemLoadPercent float64 `json:"mem_load"`
	CPULoadPercent float64 `json:"cpu_load"`
	ProcessCount   int     `json:"proc_count"`
}

// WithClientID returns a copy of s bound to id. The sample itself is never mutated.
func (s MetricsSample) WithClientID(id int) MetricsSample {
	s.ClientID = id
	return s
}

func (s MetricsSample) Validate() error {
	if !inPercentRange(s.MemLoadPercent) {
		return fmt.Errorf("%w: memory load %.2f out of range", ErrInvalidSample, s.MemLoadPercent)
	}
	if !inPercentRange(s.CPULoadPercent) {
		return fmt.Errorf("%w: cpu load %.2f out of range", ErrInvalidSample, s.CPULoadPercent)
	}
	if s.ProcessCount < 0 {
		return fmt.Errorf("%w: negative process count %d", ErrInvalidSample, s.ProcessCount)
	}
	return nil
}

func inPercentRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}

type MemoryCounts struct {
	TotalKB uint64
	FreeKB  uint64
}

type CPUSnapshot struct {
	TotalCycles uint64
	WorkCycles  uint64
}

type ScanState int32

const (
	ScanIdle ScanState = iota
	ScanRunning
)

func (s ScanState) String() string {
	switch s {
	case ScanIdle:
		return "idle"
	case ScanRunning:
		return "scanning"
	default:
		return "unknown"
	}
}
