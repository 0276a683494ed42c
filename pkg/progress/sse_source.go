package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/papercomputeco/similicana/pkg/sse"
)

// SSESource subscribes to progress over the backend's SSE endpoints.
type SSESource struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSSESource returns a Source reading <baseURL>/<job>_progress.
// The http.Client must not carry a total request timeout, since streams
// stay open for the whole job.
func NewSSESource(baseURL string, httpClient *http.Client, logger *slog.Logger) *SSESource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SSESource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Subscribe opens the stream in the background and returns immediately.
// Connection failures are logged and end the subscription.
func (s *SSESource) Subscribe(ctx context.Context, job Job, h Handler) (Subscription, error) {
	if h == nil {
		return nil, errors.New("progress handler is nil")
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, s.baseURL+job.Path(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating %s progress request: %w", job, err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	sub := &sseSubscription{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	logger := s.logger.With("job", string(job), "subscription", sub.id)
	go func() {
		defer close(sub.done)
		defer cancel()
		s.stream(streamCtx, req, h, logger)
	}()

	return sub, nil
}

func (s *SSESource) stream(ctx context.Context, req *http.Request, h Handler, logger *slog.Logger) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("progress stream failed", "error", err)
		}
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("progress stream rejected", "status", resp.StatusCode)
		return
	}

	logger.Debug("progress stream opened")
	r := sse.NewReader(resp.Body)
	for {
		ev, err := r.Next()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("reading progress stream", "error", err)
			}
			return
		}
		if ev == nil {
			logger.Debug("progress stream ended")
			return
		}
		if ctx.Err() != nil {
			return
		}

		var u Update
		if err := ev.Decode(&u); err != nil {
			logger.Warn("skipping malformed progress event", "data", ev.Data, "error", err)
			continue
		}
		h(u)
	}
}

type sseSubscription struct {
	id     string
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

func (s *sseSubscription) ID() string { return s.id }

func (s *sseSubscription) Close() {
	s.once.Do(s.cancel)
}

func (s *sseSubscription) Done() <-chan struct{} { return s.done }
