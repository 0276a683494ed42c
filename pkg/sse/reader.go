package sse

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// Reader parses SSE events from an io.Reader.
type Reader struct {
	scanner *bufio.Scanner

	// dest receives every raw line. It is io.Discard for a plain Reader.
	dest io.Writer

	current *Event
	hasData bool

	// sawData is set once the current event has a data line, even an
	// empty one, so the next data line is joined with a newline.
	sawData bool
}

// NewReader returns a Reader that parses SSE events from src.
func NewReader(src io.Reader) *Reader {
	return NewTeeReader(src, io.Discard)
}

// NewTeeReader returns a Reader that parses SSE events from src and writes
// all raw bytes through to dest.
//
// ┌──────────────────┐
// │ src io.Reader    │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │ Reader.Next()    │──▶│ dest io.Writer        │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │      Event       │
// └──────────────────┘
func NewTeeReader(src io.Reader, dest io.Writer) *Reader {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if dest == nil {
		dest = io.Discard
	}

	return &Reader{
		scanner: scanner,
		dest:    dest,
		current: &Event{},
	}
}

// Next returns the next parsed SSE event. It blocks until a complete event
// is available (terminated by a blank line in the stream) and returns
// nil, nil when the source is exhausted.
func (r *Reader) Next() (*Event, error) {
	for r.scanner.Scan() {
		raw := r.scanner.Text()

		// bufio.Scanner strips the newline so it is reinserted for dest.
		if _, err := io.WriteString(r.dest, raw+"\n"); err != nil {
			return nil, err
		}

		if raw == "" {
			if r.hasData {
				ev := r.current
				r.reset()
				return ev, nil
			}

			// keep-alive newlines
			continue
		}

		if strings.HasPrefix(raw, ":") {
			continue
		}

		r.parseLine(raw)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	// A stream that ends without a trailing blank line still yields its
	// last event.
	if r.hasData {
		ev := r.current
		r.reset()
		return ev, nil
	}

	return nil, nil
}

// parseLine accumulates a single "field:value" line into the current event.
// The first space after the colon is optional and stripped if present.
func (r *Reader) parseLine(line string) {
	field, value, ok := strings.Cut(line, ":")
	if ok {
		value = strings.TrimPrefix(value, " ")
	}

	switch field {
	case "data":
		if r.sawData {
			r.current.Data += "\n"
		}
		r.current.Data += value
		r.sawData = true
		r.hasData = true
	case "event":
		r.current.Type = value
		r.hasData = true
	case "id":
		r.current.ID = value
		r.hasData = true
	case "retry":
		// Non-integer retry values are ignored.
		if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
			r.current.Retry = time.Duration(ms) * time.Millisecond
		}
	}
}

func (r *Reader) reset() {
	r.current = &Event{}
	r.hasData = false
	r.sawData = false
}
