// Package metrics
package metrics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"sysinfo-agent/internal/config"
	"sysinfo-agent/internal/core/metrics/collector/cpu"
	"sysinfo-agent/internal/core/metrics/collector/memory"
	"sysinfo-agent/internal/core/metrics/collector/process"
	"sysinfo-agent/internal/domain"
	"sysinfo-agent/internal/logger"
)

type Collector[T any] interface {
	Collect(ctx context.Context) (T, error)
}

// Sampler runs one scan at a time: memory, then processes, then cpu.
type Sampler struct {
	memory  Collector[float64]
	process Collector[int]
	cpu     Collector[float64]
	log     logger.Logger

	state atomic.Int32

	mu         sync.Mutex
	last       domain.MetricsSample
	hasLast    bool
	onFinished func(domain.MetricsSample)
}

func NewSampler(log logger.Logger, memory Collector[float64], process Collector[int], cpu Collector[float64]) *Sampler {
	return &Sampler{
		memory:  memory,
		process: process,
		cpu:     cpu,
		log:     log,
	}
}

// NewProcSampler wires the procfs collectors rooted at cfg.ProcRoot.
func NewProcSampler(fs afero.Fs, cfg *config.Config, log logger.Logger) *Sampler {
	return NewSampler(
		log,
		memory.NewCollector(fs, cfg.ProcRoot, log),
		process.NewCollector(fs, cfg.ProcRoot, log),
		cpu.NewCollector(fs, cfg.ProcRoot, log, cpu.WithDelay(cfg.CPUSampleDelay)),
	)
}

// OnFinished registers the scan-finished callback. It runs once per
// successful scan, after every collector has returned.
func (s *Sampler) OnFinished(fn func(domain.MetricsSample)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinished = fn
}

func (s *Sampler) State() domain.ScanState {
	return domain.ScanState(s.state.Load())
}

func (s *Sampler) Last() (domain.MetricsSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Scan collects one sample. The client id is left at 0; it is bound at send time.
func (s *Sampler) Scan(ctx context.Context) (domain.MetricsSample, error) {
	if !s.state.CompareAndSwap(int32(domain.ScanIdle), int32(domain.ScanRunning)) {
		return domain.MetricsSample{}, domain.ErrScanInProgress
	}

	sample, err := s.scan(ctx)
	s.state.Store(int32(domain.ScanIdle))
	if err != nil {
		return domain.MetricsSample{}, err
	}

	s.mu.Lock()
	s.last, s.hasLast = sample, true
	fn := s.onFinished
	s.mu.Unlock()

	if fn != nil {
		fn(sample)
	}

	return sample, nil
}

func (s *Sampler) scan(ctx context.Context) (domain.MetricsSample, error) {
	log := s.log.With("scan_id", uuid.NewString())
	log.Debug("scanning system info")

	memLoad, err := s.memory.Collect(ctx)
	if err != nil {
		log.Debug("collector failed", "name", "memory", "error", err)
		return domain.MetricsSample{}, fmt.Errorf("memory: %w", err)
	}

	procCount, err := s.process.Collect(ctx)
	if err != nil {
		log.Debug("collector failed", "name", "process", "error", err)
		return domain.MetricsSample{}, fmt.Errorf("process: %w", err)
	}

	cpuLoad, err := s.cpu.Collect(ctx)
	if err != nil {
		log.Debug("collector failed", "name", "cpu", "error", err)
		return domain.MetricsSample{}, fmt.Errorf("cpu: %w", err)
	}

	sample := domain.MetricsSample{
		ClientID:       0,
		MemLoadPercent: memLoad,
		CPULoadPercent: cpuLoad,
		ProcessCount:   procCount,
	}

	if err := sample.Validate(); err != nil {
		log.Debug("scan produced invalid sample", "error", err)
		return domain.MetricsSample{}, err
	}

	log.Info("system scan successful",
		"mem_load", sample.MemLoadPercent,
		"cpu_load", sample.CPULoadPercent,
		"proc_count", sample.ProcessCount,
	)

	return sample, nil
}
