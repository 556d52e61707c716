package report

import (
	"fmt"
	"strings"

	"github.com/vvka-141/loadbench/internal/result"
)

// MarkdownTable renders runs, in the given order, as a GitHub-flavoured table.
func MarkdownTable(runs []*result.BenchmarkResult) string {
	var sb strings.Builder
	sb.WriteString("| Scenario | Rows | Time (s) | Rows/sec | Peak memory (MB) | Peak CPU (%) | Batch p99 (ms) |\n")
	sb.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")

	for _, r := range runs {
		p99 := "-"
		if r.BatchLatencyMS != nil {
			p99 = fmt.Sprintf("%.2f", r.BatchLatencyMS.P99)
		}
		fmt.Fprintf(&sb, "| %s | %d | %.2f | %.0f | %.1f | %.1f | %s |\n",
			strings.ReplaceAll(r.Name(), "|", `\|`),
			r.TotalRows, r.TotalTimeSec, r.RowsPerSec, r.PeakMemory(), r.PeakCPUPercent, p99)
	}
	return sb.String()
}
