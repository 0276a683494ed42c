package cliui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// ProgressBar draws a single updating progress line. On writers that are
// not terminals every change is printed on its own line instead.
type ProgressBar struct {
	w      io.Writer
	bar    progress.Model
	redraw bool

	mu    sync.Mutex
	last  string
	shown bool
}

// NewProgressBar returns a bar writing to w.
func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{
		w:      w,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		redraw: IsTerminal(w),
	}
}

// Update draws the bar at percent (0 to 100) with label beside it.
func (p *ProgressBar) Update(percent float64, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.redraw {
		if label == p.last {
			return
		}
		p.last = label
		fmt.Fprintf(p.w, "  %s\n", label)
		return
	}

	p.shown = true
	fmt.Fprintf(p.w, "\r  %s %s", p.bar.ViewAs(percent/100), DimStyle.Render(label))
}

// Clear removes the bar from the terminal.
func (p *ProgressBar) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = ""
	if p.redraw && p.shown {
		fmt.Fprint(p.w, "\r\033[2K")
	}
	p.shown = false
}
