// Package sampler measures the loader's own memory and CPU usage at batch
// boundaries and tracks per-batch insert latency.
package sampler

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

const bytesPerMB = 1024 * 1024

// Sample is one process measurement.
type Sample struct {
	MemoryMB   float64
	CPUPercent float64
}

// Sampler takes a measurement of the running process.
type Sampler interface {
	Sample(ctx context.Context) (Sample, error)
}

// ProcessSampler reads RSS and CPU percent of a process via gopsutil.
type ProcessSampler struct {
	proc *process.Process

	// Collection functions for mocking
	memoryInfo func(context.Context) (*process.MemoryInfoStat, error)
	cpuPercent func(context.Context) (float64, error)
}

// NewProcessSampler samples the current process.
func NewProcessSampler(ctx context.Context) (*ProcessSampler, error) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect own process: %w", err)
	}
	return &ProcessSampler{
		proc:       proc,
		memoryInfo: proc.MemoryInfoWithContext,
		cpuPercent: proc.CPUPercentWithContext,
	}, nil
}

// Sample returns RSS in MB and CPU percent since process start.
// Both values are attempted; the first error is returned with whatever was read.
func (s *ProcessSampler) Sample(ctx context.Context) (Sample, error) {
	var out Sample
	var firstErr error

	if mi, err := s.memoryInfo(ctx); err != nil {
		firstErr = fmt.Errorf("memory info: %w", err)
	} else {
		out.MemoryMB = float64(mi.RSS) / bytesPerMB
	}

	if cpu, err := s.cpuPercent(ctx); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("cpu percent: %w", err)
		}
	} else {
		out.CPUPercent = cpu
	}

	return out, firstErr
}

// Unavailable is a Sampler for platforms where the process cannot be inspected.
// Every sample fails with Err, so the Recorder falls back to Go runtime stats.
type Unavailable struct {
	Err error
}

// Sample always returns u.Err.
func (u Unavailable) Sample(context.Context) (Sample, error) {
	return Sample{}, u.Err
}
