package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vvka-141/loadbench/internal/result"
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), ValueStyle.Render(value))
}

// RenderLoadSummary formats the end-of-run summary of a load.
func RenderLoadSummary(res *result.BenchmarkResult, path string) string {
	lines := []string{
		SuccessStyle.Render(SymbolCheck+" DONE") + " " + TitleStyle.Render(res.Name()),
		"",
		row("Rows", fmt.Sprintf("%d", res.TotalRows)),
		row("Time", fmt.Sprintf("%.2fs", res.TotalTimeSec)),
		row("Rows/sec", fmt.Sprintf("%.0f", res.RowsPerSec)),
		row("Peak RAM", fmt.Sprintf("%.2f MB", res.PeakMemoryMB)),
		row("Peak CPU", fmt.Sprintf("%.2f%%", res.PeakCPUPercent)),
	}
	if res.BatchLatencyMS != nil {
		lines = append(lines, row("Batch p99", fmt.Sprintf("%.2f ms (%d batches)", res.BatchLatencyMS.P99, res.Batches)))
	}
	if path != "" {
		lines = append(lines, "", MutedStyle.Render("Result: "+path))
	}
	return BoxStyle.Render(strings.Join(lines, "\n"))
}

// RenderReportSummary formats the outcome of a report run.
func RenderReportSummary(rendered int, skipped []string, outputDir string) string {
	lines := []string{
		SuccessStyle.Render(fmt.Sprintf("%s %d scenario(s) rendered", SymbolCheck, rendered)) + MutedStyle.Render(" in "+outputDir),
	}
	if len(skipped) > 0 {
		lines = append(lines, WarningStyle.Render(fmt.Sprintf("%s %d file(s) skipped", SymbolCross, len(skipped))))
		for _, s := range skipped {
			lines = append(lines, MutedStyle.Render("  "+SymbolBullet+" "+s))
		}
	}
	return strings.Join(lines, "\n")
}
