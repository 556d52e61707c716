package sampler

import (
	"context"
	"runtime"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/vvka-141/loadbench/internal/logging"
	"github.com/vvka-141/loadbench/internal/series"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// maxLatencyMicros bounds the batch latency histogram: 1us to 10min, 3 significant figures.
const maxLatencyMicros = int64(10 * time.Minute / time.Microsecond)

// LatencyStats summarizes batch insert durations in milliseconds.
type LatencyStats struct {
	P50  float64
	P90  float64
	P99  float64
	Max  float64
	Mean float64
}

// Recorder collects one memory and CPU sample per batch boundary.
// Not safe for concurrent use; the loader calls it from a single goroutine.
type Recorder struct {
	sampler Sampler
	logger  loadbench.Logger

	Memory series.Series
	CPU    series.Series

	hist      *hdrhistogram.Histogram
	fallbacks int
}

// NewRecorder creates a Recorder over sampler.
func NewRecorder(sampler Sampler, logger loadbench.Logger) *Recorder {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Recorder{
		sampler: sampler,
		logger:  logger,
		hist:    hdrhistogram.New(1, maxLatencyMicros, 3),
	}
}

// Record takes one sample and records the batch duration.
// A failed sample falls back to runtime.MemStats.Sys and 0% CPU so every series
// keeps exactly one entry per batch.
func (r *Recorder) Record(ctx context.Context, batchDuration time.Duration) {
	s, err := r.sampler.Sample(ctx)
	if err != nil {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		s = Sample{MemoryMB: float64(ms.Sys) / bytesPerMB}
		if r.fallbacks == 0 {
			r.logger.Warn("process sampling failed, falling back to Go runtime stats: %v", err)
		}
		r.fallbacks++
	}

	r.Memory.Add(s.MemoryMB)
	r.CPU.Add(s.CPUPercent)

	us := batchDuration.Microseconds()
	if us < 1 {
		us = 1
	} else if us > maxLatencyMicros {
		us = maxLatencyMicros
	}
	_ = r.hist.RecordValue(us)
}

// Samples returns the number of recorded batch boundaries.
func (r *Recorder) Samples() int {
	return r.Memory.Len()
}

// Fallbacks returns how many samples used runtime stats instead of the process sampler.
func (r *Recorder) Fallbacks() int {
	return r.fallbacks
}

// Latency summarizes recorded batch durations. All zero when nothing was recorded.
func (r *Recorder) Latency() LatencyStats {
	if r.hist.TotalCount() == 0 {
		return LatencyStats{}
	}
	ms := func(us int64) float64 { return float64(us) / 1000 }
	return LatencyStats{
		P50:  ms(r.hist.ValueAtQuantile(50)),
		P90:  ms(r.hist.ValueAtQuantile(90)),
		P99:  ms(r.hist.ValueAtQuantile(99)),
		Max:  ms(r.hist.Max()),
		Mean: r.hist.Mean() / 1000,
	}
}
