package progress

import (
	"context"
	"sync"
)

// Tracker holds at most one open subscription per job. Starting a job closes
// the job's previous subscription first, and a subscription closes itself
// once an update reports the job done.
type Tracker struct {
	source Source

	mu     sync.Mutex
	active map[Job]*tracked
}

// NewTracker returns a Tracker opening subscriptions from source.
func NewTracker(source Source) *Tracker {
	return &Tracker{
		source: source,
		active: make(map[Job]*tracked),
	}
}

// Start closes any open subscription for job and opens a new one that
// delivers updates to h.
func (t *Tracker) Start(ctx context.Context, job Job, h Handler) (Subscription, error) {
	t.Close(job)

	entry := &tracked{}
	wrapped := func(u Update) {
		if entry.isFinished() {
			return
		}
		h(u)
		if u.Done() {
			entry.finish()
			t.forget(job, entry)
		}
	}

	sub, err := t.source.Subscribe(ctx, job, wrapped)
	if err != nil {
		return nil, err
	}
	entry.attach(sub)

	// A concurrent Start for the same job may have installed its entry
	// while this one was subscribing. The later install wins and closes
	// the displaced entry.
	t.mu.Lock()
	var displaced *tracked
	if !entry.isFinished() {
		displaced = t.active[job]
		t.active[job] = entry
	}
	t.mu.Unlock()

	if displaced != nil {
		displaced.finish()
	}
	return sub, nil
}

// Close closes the open subscription for job, if any.
func (t *Tracker) Close(job Job) {
	t.mu.Lock()
	entry := t.active[job]
	delete(t.active, job)
	t.mu.Unlock()

	if entry != nil {
		entry.finish()
	}
}

// Release closes sub and, if it is still the open subscription for job,
// forgets it. A newer subscription for job is left open.
func (t *Tracker) Release(job Job, sub Subscription) {
	if sub == nil {
		return
	}

	t.mu.Lock()
	entry := t.active[job]
	if entry != nil && entry.subscription() == sub {
		delete(t.active, job)
	} else {
		entry = nil
	}
	t.mu.Unlock()

	if entry != nil {
		entry.finish()
		return
	}
	sub.Close()
}

// CloseAll closes every open subscription.
func (t *Tracker) CloseAll() {
	t.mu.Lock()
	entries := t.active
	t.active = make(map[Job]*tracked)
	t.mu.Unlock()

	for _, entry := range entries {
		entry.finish()
	}
}

// Active reports whether a subscription for job is open.
func (t *Tracker) Active(job Job) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.active[job]
	return ok
}

func (t *Tracker) forget(job Job, entry *tracked) {
	t.mu.Lock()
	if t.active[job] == entry {
		delete(t.active, job)
	}
	t.mu.Unlock()
}

// tracked pairs a subscription with its finished flag. An update may report
// completion before Subscribe has returned, so finish and attach each close
// the subscription if the other has already happened.
type tracked struct {
	mu       sync.Mutex
	sub      Subscription
	finished bool
}

func (e *tracked) attach(sub Subscription) {
	e.mu.Lock()
	e.sub = sub
	finished := e.finished
	e.mu.Unlock()

	if finished {
		sub.Close()
	}
}

func (e *tracked) finish() {
	e.mu.Lock()
	e.finished = true
	sub := e.sub
	e.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

func (e *tracked) subscription() Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sub
}

func (e *tracked) isFinished() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finished
}
