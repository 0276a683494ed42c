// Package mcpcmder provides the mcp command that exposes card search to MCP
// clients.
package mcpcmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	mcpserver "github.com/papercomputeco/similicana/api/mcp"
	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/logger"
)

const mcpLongDesc string = `Run the similicana MCP server.

Exposes two tools to MCP clients: search_cards, which looks up card names
for a partial name, and find_similar_cards, which returns the cards most
similar to one card.

By default the server speaks streamable HTTP at /mcp on --listen. With
--stdio it serves a single client over stdin and stdout instead, which is
how most desktop MCP clients launch local servers.

Examples:
  similicana mcp
  similicana mcp --listen 127.0.0.1:8091
  similicana mcp --stdio`

const mcpShortDesc string = "Run the MCP server"

var flagKeys = []string{
	config.FlagBackend,
	config.FlagTimeout,
	config.FlagRateLimit,
	config.FlagResultCount,
	config.FlagMCPListen,
}

type mcpCommander struct {
	backend     string
	timeout     time.Duration
	rateLimit   float64
	resultCount int
	listen      string
	stdio       bool

	settings config.Settings
	debug    bool
}

func NewMCPCmd() *cobra.Command {
	cmder := &mcpCommander{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.LoadSettings(cmd, flagKeys...)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.settings = settings
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagBackend, &cmder.backend)
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagTimeout, &cmder.timeout)
	config.AddFloatFlag(cmd, config.ClientFlags, config.FlagRateLimit, &cmder.rateLimit)
	config.AddIntFlag(cmd, config.ClientFlags, config.FlagResultCount, &cmder.resultCount)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagMCPListen, &cmder.listen)
	cmd.Flags().BoolVar(&cmder.stdio, "stdio", false, "Serve one client over stdin and stdout")

	return cmd
}

func (c *mcpCommander) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	// stdout carries the protocol under --stdio, so logs always go to stderr.
	log := logger.Console(c.debug)

	client, err := c.settings.NewClient(log)
	if err != nil {
		return err
	}

	server, err := mcpserver.NewServer(mcpserver.Config{
		Backend:     client,
		ResultCount: c.settings.ResultCount,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if c.stdio {
		log.Debug("serving MCP over stdio", "backend", client.BaseURL())
		err := server.MCPServer().Run(ctx, &mcp.StdioTransport{})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	return serveHTTP(ctx, c.settings.MCPListen, server.Handler(), log)
}

func serveHTTP(ctx context.Context, address string, handler http.Handler, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", otelhttp.NewHandler(handler, "mcp"))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return err
	}

	log.Info("starting MCP server", "listen", listener.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
