// Package sse reads Server-Sent Events streams such as the backend's
// /batch_progress and /deck_progress endpoints.
//
// A Reader parses events. A TeeReader additionally forwards the raw bytes
// verbatim to a writer, which the web front end uses to relay a backend
// stream to the browser while watching for the final update.
//
// This package does NOT provide SSE writer or server capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event represents a single parsed SSE event, delimited by a blank line
// in the byte stream.
type Event struct {
	// Type is the SSE event type from the "event:" field.
	// An empty string means the default "message" type.
	Type string

	// Data is the contents of all "data:" lines for this event joined
	// with "\n".
	Data string

	// ID is the last event ID from the "id:" field, if present.
	ID string

	// Retry is the reconnection delay from the "retry:" field, zero if absent.
	Retry time.Duration
}

// Decode unmarshals the event data as JSON into v.
func (e *Event) Decode(v any) error {
	if err := json.Unmarshal([]byte(e.Data), v); err != nil {
		return fmt.Errorf("decoding event data: %w", err)
	}
	return nil
}
