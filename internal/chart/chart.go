// Package chart draws the reporter's PNG charts.
package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette used across all charts.
const (
	ColorTime         = "#4C72B0"
	ColorThroughput   = "#55A868"
	ColorMemory       = "#C44E52"
	ColorMemorySpikes = "#8172B2"
	ColorCPU          = "#2E7D32"
	ColorCPUSpikes    = "#F28E2B"
)

// Bar is one labelled value.
type Bar struct {
	Label string
	Value float64
}

// BarChart describes a bar chart. Format is applied to the value annotations
// and defaults to "%.2f".
type BarChart struct {
	Title      string
	ValueLabel string
	Color      string
	Format     string
	Bars       []Bar
}

// Trace is one line of a LineChart.
type Trace struct {
	Name   string
	Values []float64
	Color  string
	Dashed bool
}

// LineChart describes a chart of sample traces plotted against their index.
type LineChart struct {
	Title  string
	XLabel string
	YLabel string
	Traces []Trace
}

// Renderer writes charts as PNG files.
type Renderer interface {
	// Bar draws vertical bars.
	Bar(path string, c BarChart) error
	// HorizontalBars draws one row per bar, first bar on top.
	HorizontalBars(path string, c BarChart) error
	// Lines draws traces with a legend.
	Lines(path string, c LineChart) error
}

// ParseHex converts "#RRGGBB" into an opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

func (c BarChart) format() string {
	if c.Format == "" {
		return "%.2f"
	}
	return c.Format
}
