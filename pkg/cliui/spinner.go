package cliui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// spinnerFrames matches bubbletea's spinner.Dot, which the TUI also uses.
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner animates a single line until stopped.
type Spinner struct {
	w   io.Writer
	msg string

	mu      sync.Mutex
	start   time.Time
	done    chan struct{}
	stopped chan struct{}
}

// NewSpinner returns a stopped spinner that writes msg to w.
func NewSpinner(w io.Writer, msg string) *Spinner {
	return &Spinner{w: w, msg: msg}
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}

	s.start = time.Now()
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	go s.run(s.done, s.stopped)
}

func (s *Spinner) run(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)

	frame := 0
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		fmt.Fprintf(s.w, "\r  %s %s",
			spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
			s.msg,
		)

		select {
		case <-done:
			return
		case <-ticker.C:
			frame++
		}
	}
}

// Stop ends the animation and replaces the line with a ✓ or ✗ for err and
// the elapsed time. Stopping a stopped spinner does nothing.
func (s *Spinner) Stop(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return
	}

	close(s.done)
	<-s.stopped
	s.done = nil

	fmt.Fprintf(s.w, "\r  %s %s %s\n",
		Mark(err),
		s.msg,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(time.Since(s.start)))),
	)
}

// Clear ends the animation and erases the line.
func (s *Spinner) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return
	}

	close(s.done)
	<-s.stopped
	s.done = nil
	fmt.Fprint(s.w, "\r\033[2K")
}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ checkmark and elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	s := NewSpinner(w, msg)
	s.Start()
	err := fn()
	s.Stop(err)
	return err
}
