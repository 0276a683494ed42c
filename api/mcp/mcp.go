// Package mcp provides an MCP (Model Context Protocol) server exposing card
// search and similarity as tools.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/utils"
)

// Backend is the part of the backend client the tools use.
type Backend interface {
	SearchCards(ctx context.Context, term string) ([]card.SearchMatch, error)
	FindSimilar(ctx context.Context, cardName string, resultCount int) (*card.SimilarResponse, error)
}

type Config struct {
	// Backend answers the tool calls
	Backend Backend

	// ResultCount is used when find_similar_cards is called without one
	ResultCount int

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the card tools.
func NewServer(c Config) (*Server, error) {
	if c.ResultCount <= 0 {
		c.ResultCount = defaultResultCount
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "similicana",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		if c.Backend == nil {
			return nil, errors.New("backend is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        searchCardsToolName,
			Description: searchCardsDescription,
		}, s.handleSearchCards)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        findSimilarToolName,
			Description: findSimilarDescription,
		}, s.handleFindSimilar)
	}

	s.mcpServer = mcpServer

	// Stateless streamable HTTP: every request is served independently
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
