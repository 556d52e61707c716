package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	singleWidth = 10 * vg.Inch
	singleHigh  = 6 * vg.Inch

	combinedWidth = 12 * vg.Inch
	minCombined   = 6 * vg.Inch
	rowHeight     = vg.Inch / 2

	columnWidth vg.Length = 28
	// fraction of a combined-chart row covered by its bar
	rowFill = 0.6
)

// GonumRenderer renders charts with gonum.org/v1/plot.
type GonumRenderer struct{}

// NewGonumRenderer returns the production Renderer.
func NewGonumRenderer() *GonumRenderer {
	return &GonumRenderer{}
}

func (g *GonumRenderer) Bar(path string, c BarChart) error {
	if len(c.Bars) == 0 {
		return fmt.Errorf("bar chart %q has no bars", c.Title)
	}
	p, bars, err := newBarPlot(c, columnWidth, false)
	if err != nil {
		return err
	}

	names := make([]string, len(c.Bars))
	xys := make(plotter.XYs, len(c.Bars))
	for i, b := range c.Bars {
		names[i] = b.Label
		xys[i] = plotter.XY{X: float64(i), Y: b.Value}
	}
	p.NominalX(names...)
	p.Y.Min = 0
	p.Y.Max = headroom(c.Bars)

	if err := addAnnotations(p, c, xys); err != nil {
		return err
	}
	p.Add(bars)

	return save(p, singleWidth, singleHigh, path)
}

func (g *GonumRenderer) HorizontalBars(path string, c BarChart) error {
	if len(c.Bars) == 0 {
		return fmt.Errorf("bar chart %q has no bars", c.Title)
	}

	// gonum draws category 0 at the bottom; reverse so the first bar is on top.
	rev := make([]Bar, len(c.Bars))
	for i, b := range c.Bars {
		rev[len(c.Bars)-1-i] = b
	}
	c.Bars = rev

	p, bars, err := newBarPlot(c, rowFill*rowHeight, true)
	if err != nil {
		return err
	}

	names := make([]string, len(c.Bars))
	xys := make(plotter.XYs, len(c.Bars))
	for i, b := range c.Bars {
		names[i] = b.Label
		xys[i] = plotter.XY{X: b.Value, Y: float64(i)}
	}
	p.NominalY(names...)
	p.X.Min = 0
	p.X.Max = headroom(c.Bars)

	if err := addAnnotations(p, c, xys); err != nil {
		return err
	}
	p.Add(bars)

	height := vg.Length(len(c.Bars)) * rowHeight
	if height < minCombined {
		height = minCombined
	}
	return save(p, combinedWidth, height, path)
}

func (g *GonumRenderer) Lines(path string, c LineChart) error {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for _, tr := range c.Traces {
		if len(tr.Values) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(tr.Values))
		for i, v := range tr.Values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("trace %q: %w", tr.Name, err)
		}
		col, err := ParseHex(tr.Color)
		if err != nil {
			return err
		}
		line.LineStyle.Color = col
		line.LineStyle.Width = vg.Points(1.5)
		if tr.Dashed {
			line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		}

		p.Add(line)
		p.Legend.Add(tr.Name, line)
	}

	return save(p, singleWidth, singleHigh, path)
}

func newBarPlot(c BarChart, thickness vg.Length, horizontal bool) (*plot.Plot, *plotter.BarChart, error) {
	values := make(plotter.Values, len(c.Bars))
	for i, b := range c.Bars {
		values[i] = b.Value
	}

	bars, err := plotter.NewBarChart(values, thickness)
	if err != nil {
		return nil, nil, fmt.Errorf("bar chart %q: %w", c.Title, err)
	}
	col, err := ParseHex(c.Color)
	if err != nil {
		return nil, nil, err
	}
	bars.Color = col
	bars.LineStyle.Width = 0
	bars.Horizontal = horizontal

	p := plot.New()
	p.Title.Text = c.Title
	if horizontal {
		p.X.Label.Text = c.ValueLabel
	} else {
		p.Y.Label.Text = c.ValueLabel
	}
	return p, bars, nil
}

func addAnnotations(p *plot.Plot, c BarChart, xys plotter.XYs) error {
	labels := make([]string, len(c.Bars))
	for i, b := range c.Bars {
		labels[i] = fmt.Sprintf(c.format(), b.Value)
	}

	ann, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return fmt.Errorf("bar labels: %w", err)
	}
	for i := range ann.TextStyle {
		ann.TextStyle[i].Color = color.Black
		ann.TextStyle[i].XAlign = -0.5
	}
	ann.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(4)}
	p.Add(ann)
	return nil
}

// headroom leaves space for the value annotation above the tallest bar.
func headroom(bars []Bar) float64 {
	var m float64
	for _, b := range bars {
		m = math.Max(m, b.Value)
	}
	if m <= 0 {
		return 1
	}
	return m * 1.15
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}
