// Package report turns a directory of result documents into charts.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vvka-141/loadbench/internal/chart"
	"github.com/vvka-141/loadbench/internal/logging"
	"github.com/vvka-141/loadbench/internal/result"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// CPUMissingNote is written in place of a CPU chart when a run has no CPU samples.
const CPUMissingNote = "No CPU data found in JSON"

// Output file names of the cross-run charts.
const (
	CombinedTotalTime  = "combined_total_time.png"
	CombinedRowsPerSec = "combined_rows_per_sec.png"
	CombinedPeakMemory = "combined_peak_memory_mb.png"
	SummaryFile        = "summary.md"
)

// Summary reports what a report run produced.
type Summary struct {
	// Scenarios holds the parsed runs sorted by descending total time.
	Scenarios []*result.BenchmarkResult
	// Skipped lists result files that could not be read or parsed.
	Skipped []string
	// Files lists every output written, in write order.
	Files []string
}

// Rendered returns the number of scenarios with per-run outputs.
func (s *Summary) Rendered() int {
	return len(s.Scenarios)
}

// Reporter renders per-run and combined charts.
type Reporter struct {
	renderer chart.Renderer
	logger   loadbench.Logger
}

// New creates a Reporter drawing with renderer.
func New(renderer chart.Renderer, logger loadbench.Logger) *Reporter {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Reporter{renderer: renderer, logger: logger}
}

// Run processes every *.json file in cfg.ResultsDir in file name order.
// Unreadable or malformed files are logged and skipped; rendering failures abort.
func (r *Reporter) Run(ctx context.Context, cfg *loadbench.ReportConfig) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	paths, err := resultFiles(cfg.ResultsDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	sum := &Summary{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res, err := readResult(path)
		if err != nil {
			r.logger.Warn("Skipping %s: %v", filepath.Base(path), err)
			sum.Skipped = append(sum.Skipped, filepath.Base(path))
			continue
		}

		r.logger.Verbose("Rendering %s from %s", res.Name(), filepath.Base(path))
		if err := r.renderRun(cfg, res, sum); err != nil {
			return sum, err
		}
		sum.Scenarios = append(sum.Scenarios, res)
	}

	r.logger.Info("Per-file graphs generated in: %s", cfg.OutputDir)

	if len(sum.Scenarios) == 0 {
		r.logger.Warn("No readable results in %s, skipping combined charts", cfg.ResultsDir)
		return sum, nil
	}

	SortByTotalTime(sum.Scenarios)

	if err := r.renderCombined(cfg, sum); err != nil {
		return sum, err
	}

	if cfg.Summary {
		path := filepath.Join(cfg.OutputDir, SummaryFile)
		if err := os.WriteFile(path, []byte(MarkdownTable(sum.Scenarios)), 0644); err != nil {
			return sum, fmt.Errorf("failed to write summary: %w", err)
		}
		sum.Files = append(sum.Files, path)
	}

	r.logger.Info("Summary charts saved in: %s", cfg.OutputDir)
	return sum, nil
}

// SortByTotalTime orders runs slowest first; ties keep name order.
func SortByTotalTime(runs []*result.BenchmarkResult) {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].TotalTimeSec != runs[j].TotalTimeSec {
			return runs[i].TotalTimeSec > runs[j].TotalTimeSec
		}
		return runs[i].Name() < runs[j].Name()
	})
}

func resultFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: results directory %s does not exist", loadbench.ErrNoResults, dir)
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by file name.
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func readResult(path string) (*result.BenchmarkResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := result.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load JSON (%w)", err)
	}
	return res, nil
}

func (r *Reporter) renderRun(cfg *loadbench.ReportConfig, res *result.BenchmarkResult, sum *Summary) error {
	name := res.Name()
	safe := res.SafeName()
	out := func(suffix string) string {
		return filepath.Join(cfg.OutputDir, safe+suffix)
	}

	path := out("_total_time.png")
	if err := r.renderer.Bar(path, chart.BarChart{
		Title:      "Total Time - " + name,
		ValueLabel: "Seconds",
		Color:      chart.ColorTime,
		Bars:       []chart.Bar{{Label: name, Value: res.TotalTimeSec}},
	}); err != nil {
		return err
	}
	sum.Files = append(sum.Files, path)

	path = out("_rows_per_sec.png")
	if err := r.renderer.Bar(path, chart.BarChart{
		Title:      "Rows per Second - " + name,
		ValueLabel: "Rows / sec",
		Color:      chart.ColorThroughput,
		Bars:       []chart.Bar{{Label: name, Value: res.RowsPerSec}},
	}); err != nil {
		return err
	}
	sum.Files = append(sum.Files, path)

	if len(res.MemoryUsage) > 0 {
		traces := []chart.Trace{{Name: "Memory (MB)", Values: Downsample(res.MemoryUsage, cfg.MaxPoints), Color: chart.ColorMemory}}
		if len(res.MemorySpikes) > 0 {
			traces = append(traces, chart.Trace{
				Name: "Memory Spikes (MB)", Values: Downsample(res.MemorySpikes, cfg.MaxPoints),
				Color: chart.ColorMemorySpikes, Dashed: true,
			})
		}

		path = out("_memory.png")
		if err := r.renderer.Lines(path, chart.LineChart{
			Title:  fmt.Sprintf("Memory Usage - %s (peak %.1f MB)", name, res.PeakMemory()),
			XLabel: "Sample",
			YLabel: "MB",
			Traces: traces,
		}); err != nil {
			return err
		}
		sum.Files = append(sum.Files, path)
	}

	if len(res.CPUUsage) == 0 {
		path = out("_cpu_missing.txt")
		if err := os.WriteFile(path, []byte(CPUMissingNote), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		sum.Files = append(sum.Files, path)
		return nil
	}

	traces := []chart.Trace{{Name: "CPU %", Values: Downsample(res.CPUUsage, cfg.MaxPoints), Color: chart.ColorCPU}}
	if len(res.CPUSpikes) > 0 {
		traces = append(traces, chart.Trace{
			Name: "CPU Spikes %", Values: Downsample(res.CPUSpikes, cfg.MaxPoints),
			Color: chart.ColorCPUSpikes, Dashed: true,
		})
	}

	path = out("_cpu.png")
	if err := r.renderer.Lines(path, chart.LineChart{
		Title:  "CPU Usage - " + name,
		XLabel: "Sample",
		YLabel: "% CPU",
		Traces: traces,
	}); err != nil {
		return err
	}
	sum.Files = append(sum.Files, path)
	return nil
}

func (r *Reporter) renderCombined(cfg *loadbench.ReportConfig, sum *Summary) error {
	bars := func(value func(*result.BenchmarkResult) float64) []chart.Bar {
		out := make([]chart.Bar, len(sum.Scenarios))
		for i, res := range sum.Scenarios {
			out[i] = chart.Bar{Label: res.Name(), Value: value(res)}
		}
		return out
	}

	charts := []struct {
		file   string
		layout chart.BarChart
	}{
		{CombinedTotalTime, chart.BarChart{
			Title: "Total Time - All Scenarios (sorted)", ValueLabel: "Seconds", Color: chart.ColorTime,
			Bars: bars(func(r *result.BenchmarkResult) float64 { return r.TotalTimeSec }),
		}},
		{CombinedRowsPerSec, chart.BarChart{
			Title: "Rows/sec - All Scenarios (sorted)", ValueLabel: "Rows / sec", Color: chart.ColorThroughput,
			Bars: bars(func(r *result.BenchmarkResult) float64 { return r.RowsPerSec }),
		}},
		{CombinedPeakMemory, chart.BarChart{
			Title: "Peak Memory - All Scenarios (sorted)", ValueLabel: "Peak Memory (MB)", Color: chart.ColorMemory,
			Format: "%.1f",
			Bars:   bars(func(r *result.BenchmarkResult) float64 { return r.PeakMemory() }),
		}},
	}

	for _, c := range charts {
		path := filepath.Join(cfg.OutputDir, c.file)
		if err := r.renderer.HorizontalBars(path, c.layout); err != nil {
			return err
		}
		sum.Files = append(sum.Files, path)
	}
	return nil
}
