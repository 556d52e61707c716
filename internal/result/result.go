// Package result defines the per-run benchmark document shared by the loader and the reporter.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/loadbench/internal/series"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// Latency summarizes batch insert durations in milliseconds.
type Latency struct {
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	P99  float64 `json:"p99"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// BenchmarkResult is the JSON document written once per scenario.
type BenchmarkResult struct {
	DB       string `json:"db"`
	Mode     string `json:"mode"`
	Variant  string `json:"variant"`
	Language string `json:"language"`

	TotalRows      int     `json:"total_rows"`
	TotalTimeSec   float64 `json:"total_time_sec"`
	RowsPerSec     float64 `json:"rows_per_sec"`
	PeakMemoryMB   float64 `json:"peak_memory_mb"`
	PeakCPUPercent float64 `json:"peak_cpu_percent"`

	MemoryUsage  []float64 `json:"memory_usage"`
	MemorySpikes []float64 `json:"memory_spikes"`
	CPUUsage     []float64 `json:"cpu_usage"`
	CPUSpikes    []float64 `json:"cpu_spikes"`

	RunID          string    `json:"run_id,omitempty"`
	StartedAt      time.Time `json:"started_at,omitzero"`
	BatchSize      int       `json:"batch_size,omitempty"`
	Batches        int       `json:"batches,omitempty"`
	BatchLatencyMS *Latency  `json:"batch_latency_ms,omitempty"`
}

// New builds a result for scenario from the recorded series.
// Throughput is 0 when elapsed is 0.
func New(sc loadbench.Scenario, rows int, elapsed time.Duration, memory, cpu series.Series) *BenchmarkResult {
	secs := elapsed.Seconds()
	var rps float64
	if secs > 0 {
		rps = float64(rows) / secs
	}

	return &BenchmarkResult{
		DB:             sc.DB,
		Mode:           sc.Mode,
		Variant:        sc.Variant,
		Language:       sc.Language,
		TotalRows:      rows,
		TotalTimeSec:   secs,
		RowsPerSec:     rps,
		PeakMemoryMB:   series.Max(memory.Usage),
		PeakCPUPercent: series.Max(cpu.Usage),
		MemoryUsage:    nonNil(memory.Usage),
		MemorySpikes:   nonNil(memory.Spikes),
		CPUUsage:       nonNil(cpu.Usage),
		CPUSpikes:      nonNil(cpu.Spikes),
		RunID:          uuid.NewString(),
	}
}

// Name returns db_mode_variant_language.
func (r *BenchmarkResult) Name() string {
	return strings.Join([]string{r.DB, r.Mode, r.Variant, r.Language}, "_")
}

// SafeName is Name with spaces replaced, usable as a file name prefix.
func (r *BenchmarkResult) SafeName() string {
	return strings.ReplaceAll(r.Name(), " ", "_")
}

// FileName is the lower-cased document name, e.g. postgresql_boring_plain_go.json.
func (r *BenchmarkResult) FileName() string {
	return strings.ToLower(r.SafeName()) + ".json"
}

// FileNameFor returns the document name a run of sc will write.
func FileNameFor(sc loadbench.Scenario) string {
	r := BenchmarkResult{DB: sc.DB, Mode: sc.Mode, Variant: sc.Variant, Language: sc.Language}
	return r.FileName()
}

// PeakMemory prefers the spike trace, then raw samples, then the recorded scalar.
func (r *BenchmarkResult) PeakMemory() float64 {
	switch {
	case len(r.MemorySpikes) > 0:
		return series.Max(r.MemorySpikes)
	case len(r.MemoryUsage) > 0:
		return series.Max(r.MemoryUsage)
	default:
		return r.PeakMemoryMB
	}
}

// Validate checks the spike invariants and reports every violation.
func (r *BenchmarkResult) Validate() error {
	var errs []error
	errs = append(errs, validateSpikes("memory", r.MemoryUsage, r.MemorySpikes)...)
	errs = append(errs, validateSpikes("cpu", r.CPUUsage, r.CPUSpikes)...)
	if r.TotalRows < 0 {
		errs = append(errs, fmt.Errorf("total_rows is negative: %d", r.TotalRows))
	}
	return errors.Join(errs...)
}

func validateSpikes(name string, usage, spikes []float64) []error {
	if len(usage) != len(spikes) {
		return []error{fmt.Errorf("%s_spikes has %d samples, %s_usage has %d", name, len(spikes), name, len(usage))}
	}
	var errs []error
	for i := 1; i < len(spikes); i++ {
		if spikes[i] < spikes[i-1] {
			errs = append(errs, fmt.Errorf("%s_spikes decreases at index %d (%g < %g)", name, i, spikes[i], spikes[i-1]))
		}
	}
	return errs
}

// Write stores the document as indented JSON in dir and returns its path.
// An existing document is left untouched and ErrResultExists returned unless overwrite is set.
func (r *BenchmarkResult) Write(dir string, overwrite bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, r.FileName())

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s (use --overwrite to replace it)", loadbench.ErrResultExists, path)
		}
		return "", fmt.Errorf("failed to create result file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write result file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}
	return path, nil
}

func nonNil(xs []float64) []float64 {
	if xs == nil {
		return []float64{}
	}
	return xs
}
