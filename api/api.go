package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"github.com/papercomputeco/similicana/api/mcp"
	"github.com/papercomputeco/similicana/pkg/progress"
	"github.com/papercomputeco/similicana/pkg/readiness"
	"github.com/papercomputeco/similicana/pkg/render"
	"github.com/papercomputeco/similicana/pkg/session"
	"github.com/papercomputeco/similicana/pkg/weights"
)

// Backend is the backend client surface the web front end relays to.
// *client.Client implements it.
type Backend interface {
	session.Backend
	mcp.Backend
	readiness.Checker
	Stream(ctx context.Context, job progress.Job) (io.ReadCloser, error)
}

// Server is the web front end server.
type Server struct {
	config    Config
	backend   Backend
	logger    *slog.Logger
	app       *fiber.App
	templates *template.Template
	poller    *readiness.Poller

	ready atomic.Bool

	// streams parents every relayed progress stream. It is cancelled on
	// shutdown.
	streams     context.Context
	stopStreams context.CancelFunc

	mu      sync.Mutex
	weights weights.Vector
}

// NewServer creates a new web server relaying to backend.
func NewServer(config Config, backend Backend, logger *slog.Logger) (*Server, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if config.ResultCount <= 0 {
		config.ResultCount = session.DefaultResultCount
	}
	if config.Weights == nil {
		config.Weights = weights.Defaults()
	}
	if config.Keepalive <= 0 {
		config.Keepalive = defaultKeepalive
	}

	templates, err := pageTemplates()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	streams, stopStreams := context.WithCancel(context.Background())

	s := &Server{
		config:      config,
		backend:     backend,
		logger:      logger,
		app:         app,
		templates:   templates,
		poller:      readiness.NewPoller(backend, config.PollInterval, logger),
		streams:     streams,
		stopStreams: stopStreams,
		weights:     config.Weights.Clone(),
	}

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(webFS),
		PathPrefix: "web/static",
	}))

	app.Get("/", s.handlePage(render.PageSingle))
	app.Get("/batch", s.handlePage(render.PageBatch))
	app.Get("/deck", s.handlePage(render.PageDeck))

	app.Get("/status", s.handleStatus)
	app.Post("/search_cards", s.handleSearchCards)
	app.Post("/find_similar", s.handleFindSimilar)
	app.Post("/find_similar_batch", s.handleFindSimilarBatch)
	app.Post("/analyze_deck", s.handleAnalyzeDeck)
	app.Post("/update_weights", s.handleUpdateWeights)
	app.Get(progress.JobBatch.Path(), s.handleProgress(progress.JobBatch))
	app.Get(progress.JobDeck.Path(), s.handleProgress(progress.JobDeck))

	if config.MCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Backend:     backend,
			ResultCount: config.ResultCount,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating MCP server: %w", err)
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run polls the backend for readiness and serves until ctx is done or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.poller.Start(ctx, s.markReady)
	defer s.poller.Stop()

	go func() {
		<-ctx.Done()
		s.stopStreams()
		_ = s.app.Shutdown()
	}()

	s.logger.Info("starting web server",
		"listen", s.config.ListenAddr,
		"mcp", s.config.MCP,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the web server.
func (s *Server) Shutdown() error {
	s.stopStreams()
	s.poller.Stop()
	return s.app.Shutdown()
}

func (s *Server) markReady() {
	s.ready.Store(true)
	s.logger.Info("backend ready")
}

func (s *Server) currentWeights() weights.Vector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weights.Clone()
}

func (s *Server) setWeights(v weights.Vector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = v.Clone()
}

// newSession returns a session for one request. The browser follows job
// progress itself through the relayed streams, so the session does not.
func (s *Server) newSession(page render.Page, resultCount int) *session.Session {
	sess := session.New(nil,
		session.WithPage(page),
		session.WithResultCount(resultCount),
		session.WithWeights(s.currentWeights()),
	)
	if s.ready.Load() {
		sess.MarkReady()
	}
	return sess
}
