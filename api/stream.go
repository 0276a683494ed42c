package api

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/sse"
)

const defaultKeepalive = 15 * time.Second

// handleProgress relays the backend's progress stream for job to the
// browser, ending it once the job reports done.
func (s *Server) handleProgress(job progress.Job) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The stream outlives the handler, so it hangs off the server
		// rather than the request context.
		ctx, cancel := context.WithCancel(s.streams)

		body, err := s.backend.Stream(ctx, job)
		if err != nil {
			cancel()
			s.logger.Warn("progress stream unavailable", "job", string(job), "error", err)
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "progress stream unavailable"})
		}

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")

		keepalive := s.config.Keepalive
		logger := s.logger.With("job", string(job))
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer cancel()
			defer body.Close()
			relay(w, body, keepalive, cancel, logger)
		})
		return nil
	}
}

// relay tees events from src to w until an update reports the job done or
// either side fails. Events that are not progress updates are passed
// through. While src is idle a comment is sent every keepalive; when one
// cannot be delivered, release is called so a blocked read of src returns.
func relay(w *bufio.Writer, src io.Reader, keepalive time.Duration, release func(), logger *slog.Logger) {
	out := &streamWriter{w: w}
	done := make(chan struct{})
	defer close(done)
	go out.keepalive(keepalive, done, release, logger)

	reader := sse.NewTeeReader(src, out)
	for {
		ev, err := reader.Next()
		if err != nil {
			logger.Debug("progress relay stopped", "error", err)
			return
		}
		if ev == nil {
			return
		}
		if err := out.Flush(); err != nil {
			logger.Debug("progress client went away", "error", err)
			return
		}

		var u progress.Update
		if err := ev.Decode(&u); err != nil {
			continue
		}
		if u.Done() {
			return
		}
	}
}

// streamWriter serializes the tee and the keepalive comments onto the
// client connection. The tee writes whole lines, so a comment never splits
// one.
type streamWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func (s *streamWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *streamWriter) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

func (s *streamWriter) comment() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.WriteString(": keepalive\n"); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *streamWriter) keepalive(every time.Duration, done <-chan struct{}, release func(), logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := s.comment(); err != nil {
				logger.Debug("progress client went away", "error", err)
				release()
				return
			}
		}
	}
}
