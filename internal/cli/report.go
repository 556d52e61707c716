package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/loadbench/internal/chart"
	"github.com/vvka-141/loadbench/internal/config"
	"github.com/vvka-141/loadbench/internal/logging"
	"github.com/vvka-141/loadbench/internal/report"
	"github.com/vvka-141/loadbench/internal/tui"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

var reportCmd = &cobra.Command{
	Use:   "report <results_dir>",
	Short: "Render charts from benchmark result documents",
	Long: `Report reads every *.json result document in results_dir and writes PNG charts.

Per scenario:
  <name>_total_time.png      bar chart of the total run time
  <name>_rows_per_sec.png    bar chart of the throughput
  <name>_memory.png          memory usage and running peak per batch
  <name>_cpu.png             CPU usage and running peak per batch
                             (<name>_cpu_missing.txt when the run has no CPU samples)

Across scenarios, sorted by total time (slowest first):
  combined_total_time.png, combined_rows_per_sec.png, combined_peak_memory_mb.png

Files that are not valid result documents are skipped with a warning.

Examples:
  loadbench report ./results
  loadbench report ./results --output ./graphs --max-points 600 --summary`,
	Args: RequireResultsDir,
	RunE: runReport,
}

type reportFlagValues struct {
	output     string
	maxPoints  int
	summary    bool
	configPath string
}

var reportFlags reportFlagValues

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportFlags.output, "output", "o", loadbench.DefaultGraphsDir,
		"Directory receiving charts and notes")
	reportCmd.Flags().IntVar(&reportFlags.maxPoints, "max-points", loadbench.DefaultMaxPoints,
		"Maximum number of samples drawn per memory/CPU trace")
	reportCmd.Flags().BoolVar(&reportFlags.summary, "summary", false,
		"Also write summary.md, a Markdown table of all scenarios")
	reportCmd.Flags().StringVar(&reportFlags.configPath, "config", "",
		"Path to loadbench.yaml (default: ./loadbench.yaml when present)")
}

func runReport(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	projectCfg, err := loadProjectConfig(reportFlags.configPath)
	if err != nil {
		return err
	}

	cfg := buildReportConfig(cmd, args[0], projectCfg, verbose)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext(0, "report")
	defer cancel()

	sum, err := report.New(chart.NewGonumRenderer(), logger).Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	fmt.Println(tui.RenderReportSummary(sum.Rendered(), sum.Skipped, cfg.OutputDir))
	return nil
}

// buildReportConfig merges flags, loadbench.yaml and defaults into a ReportConfig.
func buildReportConfig(cmd *cobra.Command, resultsDir string, projectCfg *config.ProjectConfig, verbose bool) *loadbench.ReportConfig {
	var pc config.ReportConfig
	if projectCfg != nil {
		pc = projectCfg.Report
	}

	return &loadbench.ReportConfig{
		ResultsDir: resultsDir,
		OutputDir:  stringSetting(cmd, "output", reportFlags.output, pc.OutputDir),
		MaxPoints:  intSetting(cmd, "max-points", reportFlags.maxPoints, pc.MaxPoints),
		Summary:    reportFlags.summary,
		Verbose:    verbose,
	}
}
