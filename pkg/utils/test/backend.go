package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/progress"
)

// MockBackend is an httptest server speaking the similarity backend's REST
// surface. Fields may be changed between requests; they are read under lock.
type MockBackend struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []string

	// Ready is reported by /status.
	Ready bool

	// Cards is the searchable card pool, keyed by lower-case simple name.
	Cards map[string]card.Card

	// Similar lists the similar cards returned for a target simple name.
	Similar map[string][]card.Card

	// BatchError, when set, makes /find_similar_batch answer {error}.
	BatchError string

	// Deck is written verbatim as the /analyze_deck response.
	Deck any

	// WeightsError, when set, makes /update_weights answer {success:false}.
	WeightsError string

	// Weights holds the last body posted to /update_weights.
	Weights map[string]float64

	// Progress holds the updates streamed for each job.
	Progress map[progress.Job][]progress.Update

	// HoldStreams keeps a progress stream open after its last update until
	// the client goes away.
	HoldStreams bool
	openStreams int

	// Status, when non-zero, is returned by every endpoint with StatusBody.
	Status     int
	StatusBody string

	// Delay holds every response until it elapses or the client goes away.
	Delay time.Duration

	// LastForm and LastJSON hold the last request bodies.
	LastForm map[string]string
	LastJSON map[string]any

	// LastHeader holds the headers of the last request.
	LastHeader http.Header
}

// NewMockBackend starts a ready backend with an empty card pool.
func NewMockBackend() *MockBackend {
	b := &MockBackend{
		Ready:    true,
		Cards:    make(map[string]card.Card),
		Similar:  make(map[string][]card.Card),
		Progress: make(map[progress.Job][]progress.Update),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", b.status)
	mux.HandleFunc("POST /search_cards", b.searchCards)
	mux.HandleFunc("POST /find_similar", b.findSimilar)
	mux.HandleFunc("POST /find_similar_batch", b.findSimilarBatch)
	mux.HandleFunc("POST /analyze_deck", b.analyzeDeck)
	mux.HandleFunc("POST /update_weights", b.updateWeights)
	mux.HandleFunc("GET /batch_progress", b.stream(progress.JobBatch))
	mux.HandleFunc("GET /deck_progress", b.stream(progress.JobDeck))

	b.Server = httptest.NewServer(b.record(mux))
	return b
}

// URL returns the server base URL.
func (b *MockBackend) URL() string {
	return b.Server.URL
}

// Close shuts the server down.
func (b *MockBackend) Close() {
	b.Server.Close()
}

// Set runs fn with the backend locked, for changing fields mid-test.
func (b *MockBackend) Set(fn func(b *MockBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

// AddCard adds c to the pool with the given similar cards.
func (b *MockBackend) AddCard(c card.Card, similar ...card.Card) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := strings.ToLower(c.SimpleName)
	b.Cards[key] = c
	b.Similar[key] = similar
}

// Requests returns "METHOD /path" for every request received.
func (b *MockBackend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// OpenStreams returns the number of progress streams still being served.
func (b *MockBackend) OpenStreams() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.openStreams
}

// Count returns how many requests hit path.
func (b *MockBackend) Count(path string) int {
	n := 0
	for _, r := range b.Requests() {
		if strings.HasSuffix(r, " "+path) {
			n++
		}
	}
	return n
}

func (b *MockBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.LastHeader = r.Header.Clone()
		status, body, delay := b.Status, b.StatusBody, b.Delay
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *MockBackend) status(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	ready := b.Ready
	b.mu.Unlock()
	writeJSON(w, map[string]bool{"ready": ready})
}

func (b *MockBackend) searchCards(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(b.form(r)["search_term"])
	matches := []card.SearchMatch{}
	if len(term) < 2 {
		writeJSON(w, matches)
		return
	}

	b.mu.Lock()
	for key, c := range b.Cards {
		if strings.Contains(key, term) {
			matches = append(matches, card.SearchMatch{SimpleName: c.SimpleName, Name: c.Name(), ImageURL: c.ImageURL})
		}
	}
	b.mu.Unlock()

	if len(matches) > 10 {
		matches = matches[:10]
	}
	writeJSON(w, matches)
}

func (b *MockBackend) findSimilar(w http.ResponseWriter, r *http.Request) {
	form := b.form(r)
	name := strings.ToLower(form["card_name"])
	count, _ := strconv.Atoi(form["result_count"])

	resp, ok := b.lookup(name, count)
	if !ok {
		writeJSON(w, map[string]string{"error": fmt.Sprintf("Card '%s' not found", name)})
		return
	}
	writeJSON(w, resp)
}

func (b *MockBackend) findSimilarBatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Cards       []string `json:"cards"`
		ResultCount int      `json:"result_count"`
	}
	b.decode(r, &body)

	b.mu.Lock()
	batchErr := b.BatchError
	b.mu.Unlock()
	if batchErr != "" {
		writeJSON(w, map[string]string{"error": batchErr})
		return
	}

	results := []card.SimilarResponse{}
	for _, name := range body.Cards {
		if resp, ok := b.lookup(strings.ToLower(name), body.ResultCount); ok {
			results = append(results, resp)
		}
	}
	writeJSON(w, results)
}

func (b *MockBackend) analyzeDeck(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	b.decode(r, &body)

	b.mu.Lock()
	deck := b.Deck
	b.mu.Unlock()
	if deck == nil {
		deck = map[string]any{"html": "", "final_deck": []any{}}
	}
	writeJSON(w, deck)
}

func (b *MockBackend) updateWeights(w http.ResponseWriter, r *http.Request) {
	var body map[string]float64
	b.decode(r, &body)

	b.mu.Lock()
	b.Weights = body
	weightsErr := b.WeightsError
	b.mu.Unlock()

	if weightsErr != "" {
		writeJSON(w, map[string]any{"success": false, "error": weightsErr})
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (b *MockBackend) stream(job progress.Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		updates := append([]progress.Update(nil), b.Progress[job]...)
		hold := b.HoldStreams
		b.openStreams++
		b.mu.Unlock()
		defer func() {
			b.mu.Lock()
			b.openStreams--
			b.mu.Unlock()
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, u := range updates {
			data, _ := json.Marshal(u)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if flusher != nil {
				flusher.Flush()
			}
		}
		if hold {
			<-r.Context().Done()
		}
	}
}

func (b *MockBackend) lookup(name string, count int) (card.SimilarResponse, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	target, ok := b.Cards[name]
	if !ok {
		return card.SimilarResponse{}, false
	}
	similar := b.Similar[name]
	if count > 0 && len(similar) > count {
		similar = similar[:count]
	}
	if similar == nil {
		similar = []card.Card{}
	}
	return card.SimilarResponse{TargetCard: &target, SimilarCards: similar}, true
}

func (b *MockBackend) form(r *http.Request) map[string]string {
	_ = r.ParseForm()
	out := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		out[k] = r.PostForm.Get(k)
	}

	b.mu.Lock()
	b.LastForm = out
	b.mu.Unlock()
	return out
}

func (b *MockBackend) decode(r *http.Request, v any) {
	data, _ := io.ReadAll(r.Body)

	var raw map[string]any
	_ = json.Unmarshal(data, &raw)
	_ = json.Unmarshal(data, v)

	b.mu.Lock()
	b.LastJSON = raw
	b.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
