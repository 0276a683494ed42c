// Package client is the HTTP client for the Lorcana similarity backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/utils"
	"github.com/papercomputeco/similicana/pkg/weights"
)

const (
	// DefaultTimeout bounds every non-streaming request.
	DefaultTimeout = 30 * time.Second

	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 4096
)

// Client talks to the backend REST surface.
type Client struct {
	baseURL *url.URL
	logger  *slog.Logger
	limiter *rate.Limiter

	timeout   time.Duration
	transport http.RoundTripper

	httpClient   *http.Client
	streamClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Streams are not bounded by it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit paces requests to at most rps per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTransport sets the base transport wrapped by the tracing transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// New returns a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend URL %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("backend URL %q has no host", baseURL)
	}

	c := &Client{
		baseURL:   u,
		logger:    slog.Default(),
		timeout:   DefaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}

	traced := otelhttp.NewTransport(c.transport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	c.httpClient = &http.Client{Transport: traced, Timeout: c.timeout}
	c.streamClient = &http.Client{Transport: traced}

	return c, nil
}

// BaseURL returns the backend URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ProgressSource returns a progress.Source reading the backend's streams.
func (c *Client) ProgressSource() *progress.SSESource {
	return progress.NewSSESource(c.BaseURL(), c.streamClient, c.logger)
}

// Ready reports whether the backend has finished loading.
func (c *Client) Ready(ctx context.Context) (bool, error) {
	var status struct {
		Ready bool `json:"ready"`
	}
	if err := c.do(ctx, http.MethodGet, "/status", nil, "", &status); err != nil {
		return false, err
	}
	return status.Ready, nil
}

// SearchCards returns the cards whose name contains term.
func (c *Client) SearchCards(ctx context.Context, term string) ([]card.SearchMatch, error) {
	form := url.Values{"search_term": {term}}

	var matches []card.SearchMatch
	if err := c.postForm(ctx, "/search_cards", form, &matches); err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []card.SearchMatch{}
	}
	return matches, nil
}

// FindSimilar returns the named card and up to resultCount similar cards.
// A backend error message is returned as an *APIError.
func (c *Client) FindSimilar(ctx context.Context, cardName string, resultCount int) (*card.SimilarResponse, error) {
	form := url.Values{
		"card_name":    {cardName},
		"result_count": {strconv.Itoa(resultCount)},
	}

	resp := &card.SimilarResponse{}
	if err := c.postForm(ctx, "/find_similar", form, resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &APIError{Endpoint: "/find_similar", Status: http.StatusOK, Message: resp.Error}
	}
	if resp.TargetCard == nil {
		return nil, fmt.Errorf("/find_similar: response has no target card")
	}
	return resp, nil
}

// FindSimilarBatch returns one result group per card name, in request order.
func (c *Client) FindSimilarBatch(ctx context.Context, cards []string, resultCount int) ([]card.SimilarResponse, error) {
	body := struct {
		Cards       []string `json:"cards"`
		ResultCount int      `json:"result_count"`
	}{Cards: cards, ResultCount: resultCount}

	var raw json.RawMessage
	if err := c.postJSON(ctx, "/find_similar_batch", body, &raw); err != nil {
		return nil, err
	}

	if isJSONObject(raw) {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &failure); err != nil {
			return nil, fmt.Errorf("/find_similar_batch: decoding response: %w", err)
		}
		if failure.Error == "" {
			return nil, fmt.Errorf("/find_similar_batch: expected a list of results")
		}
		return nil, &APIError{Endpoint: "/find_similar_batch", Status: http.StatusOK, Message: failure.Error}
	}

	var results []card.SimilarResponse
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("/find_similar_batch: decoding response: %w", err)
	}
	return results, nil
}

// AnalyzeDeck builds a deck from the decklist. ignoreCollection asks the
// backend not to restrict the result to the user's collection.
func (c *Client) AnalyzeDeck(ctx context.Context, decklist string, ignoreCollection bool) (*card.DeckAnalysis, error) {
	body := struct {
		Decklist         string `json:"decklist"`
		IgnoreCollection bool   `json:"ignoreCollection"`
	}{Decklist: decklist, IgnoreCollection: ignoreCollection}

	var raw struct {
		HTML      string          `json:"html"`
		FinalDeck json.RawMessage `json:"final_deck"`
		Error     string          `json:"error"`
	}
	if err := c.postJSON(ctx, "/analyze_deck", body, &raw); err != nil {
		return nil, err
	}
	if raw.Error != "" {
		return nil, &APIError{Endpoint: "/analyze_deck", Status: http.StatusOK, Message: raw.Error}
	}

	analysis := &card.DeckAnalysis{HTML: raw.HTML}
	if !isJSONArray(raw.FinalDeck) {
		return analysis, ErrUnexpectedDeckFormat
	}
	if err := json.Unmarshal(raw.FinalDeck, &analysis.FinalDeck); err != nil {
		return analysis, fmt.Errorf("%w: %v", ErrUnexpectedDeckFormat, err)
	}
	return analysis, nil
}

// UpdateWeights replaces the backend's similarity weights. The vector is
// validated locally first and nothing is sent when it is invalid.
func (c *Client) UpdateWeights(ctx context.Context, w weights.Vector) error {
	if err := w.Validate(); err != nil {
		return err
	}

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.postJSON(ctx, "/update_weights", w, &resp); err != nil {
		return err
	}
	if !resp.Success {
		if resp.Error != "" {
			return &APIError{Endpoint: "/update_weights", Status: http.StatusOK, Message: resp.Error}
		}
		return fmt.Errorf("/update_weights: %w", ErrWeightsRejected)
	}
	return nil
}

// Stream opens the raw SSE progress stream for job. The caller closes the body.
func (c *Client) Stream(ctx context.Context, job progress.Job) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, job.Path(), nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Path(), err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w %d", job.Path(), ErrUnexpectedStatus, resp.StatusCode)
	}
	return resp.Body, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: rate limiter: %w", path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", utils.UserAgent())
	req.Header.Set(requestIDHeader, uuid.NewString())
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", req.Header.Get(requestIDHeader),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			return &APIError{Endpoint: path, Status: resp.StatusCode, Message: failure.Error}
		}
		return fmt.Errorf("%s: %w %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", path, err)
	}
	return nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
