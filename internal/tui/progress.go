package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/vvka-141/loadbench/pkg/loadbench"
)

// minRedraw limits how often the bar is repainted.
const minRedraw = 100 * time.Millisecond

// ProgressBar draws a single-line row counter on a terminal.
// It is driven synchronously from the caller's goroutine.
type ProgressBar struct {
	out   io.Writer
	total int
	bar   progress.Model
	last  time.Time
	now   func() time.Time

	// painted is set while the cursor sits at the end of a drawn bar.
	painted bool
}

// NewProgressBar creates a bar for total rows writing to out.
func NewProgressBar(out io.Writer, total, width int) *ProgressBar {
	bar := progress.New(progress.WithDefaultGradient())
	if width > 0 {
		bar.Width = width
	}
	return &ProgressBar{out: out, total: total, bar: bar, now: time.Now}
}

// Update repaints the bar for rows inserted so far, at most every minRedraw.
func (p *ProgressBar) Update(rows int) {
	now := p.now()
	if rows < p.total && now.Sub(p.last) < minRedraw {
		return
	}
	p.last = now
	p.painted = true
	fmt.Fprintf(p.out, "\r%s %d/%d rows", p.bar.ViewAs(p.fraction(rows)), rows, p.total)
}

// Interrupt ends the current bar line so other output starts on a fresh one.
// The next Update repaints immediately.
func (p *ProgressBar) Interrupt() {
	if !p.painted {
		return
	}
	fmt.Fprintln(p.out)
	p.painted = false
	p.last = time.Time{}
}

// Done terminates the bar line.
func (p *ProgressBar) Done() {
	p.Interrupt()
}

// Logger wraps next so every message is printed below the bar instead of
// being appended to its line.
func (p *ProgressBar) Logger(next loadbench.Logger) loadbench.Logger {
	return barLogger{Logger: next, bar: p}
}

type barLogger struct {
	loadbench.Logger
	bar *ProgressBar
}

func (l barLogger) Verbose(format string, args ...interface{}) {
	l.bar.Interrupt()
	l.Logger.Verbose(format, args...)
}

func (l barLogger) Info(format string, args ...interface{}) {
	l.bar.Interrupt()
	l.Logger.Info(format, args...)
}

func (l barLogger) Warn(format string, args ...interface{}) {
	l.bar.Interrupt()
	l.Logger.Warn(format, args...)
}

func (l barLogger) Error(format string, args ...interface{}) {
	l.bar.Interrupt()
	l.Logger.Error(format, args...)
}

func (p *ProgressBar) fraction(rows int) float64 {
	if p.total <= 0 {
		return 0
	}
	f := float64(rows) / float64(p.total)
	if f > 1 {
		return 1
	}
	return f
}
