// Package progress subscribes to the backend's batch and deck progress
// streams.
//
// A Source opens a Subscription for a Job and delivers every Update to a
// Handler. The Tracker keeps at most one open subscription per job and
// closes it once the job reports completion.
package progress

import (
	"context"
	"fmt"
)

// Job identifies which long running backend operation a stream reports on.
type Job string

const (
	JobBatch Job = "batch"
	JobDeck  Job = "deck"
)

// Path returns the backend endpoint streaming progress for the job.
func (j Job) Path() string {
	return "/" + string(j) + "_progress"
}

// Update is one progress report. Current never decreases and Total is fixed
// for the lifetime of a job.
type Update struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Percent returns Current/Total as a percentage in [0,100]. It is 0 while
// Total is 0.
func (u Update) Percent() float64 {
	if u.Total <= 0 {
		return 0
	}
	p := float64(u.Current) / float64(u.Total) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Done reports whether the job has finished.
func (u Update) Done() bool {
	return u.Total > 0 && u.Current >= u.Total
}

// Label returns the text shown next to the progress bar.
func (u Update) Label() string {
	return fmt.Sprintf("Processing cards: %d/%d", u.Current, u.Total)
}

// Handler receives updates in stream order from a single goroutine.
type Handler func(Update)

// Subscription is an open progress stream.
type Subscription interface {
	// ID uniquely identifies the subscription in logs.
	ID() string

	// Close stops delivery. It never blocks and is safe to call more than once.
	Close()

	// Done is closed once no further updates will be delivered.
	Done() <-chan struct{}
}

// Source opens progress subscriptions.
type Source interface {
	Subscribe(ctx context.Context, job Job, h Handler) (Subscription, error)
}
