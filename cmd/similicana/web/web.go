// Package webcmder provides the web command that serves the browser front end.
package webcmder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/api"
	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/logger"
)

const webLongDesc string = `Serve the similicana web front end.

Serves the single card, batch and deck pages on a local address and relays
their requests to the similarity backend. The pages stay disabled until the
backend reports that it has finished loading cards.

With --mcp the MCP server is mounted at /mcp on the same address.

Examples:
  similicana web
  similicana web --listen :9000 --mcp
  similicana web --log-file similicana.log`

const webShortDesc string = "Serve the web front end"

var flagKeys = []string{
	config.FlagBackend,
	config.FlagTimeout,
	config.FlagRateLimit,
	config.FlagResultCount,
	config.FlagDebounce,
	config.FlagPollInterval,
	config.FlagWebListen,
}

type webCommander struct {
	backend      string
	timeout      time.Duration
	rateLimit    float64
	resultCount  int
	debounce     time.Duration
	pollInterval time.Duration
	listen       string
	mcp          bool
	logFile      string

	settings config.Settings
	debug    bool
}

func NewWebCmd() *cobra.Command {
	cmder := &webCommander{}

	cmd := &cobra.Command{
		Use:   "web",
		Short: webShortDesc,
		Long:  webLongDesc,
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
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagDebounce, &cmder.debounce)
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagPollInterval, &cmder.pollInterval)
	config.AddStringFlag(cmd, config.ClientFlags, config.FlagWebListen, &cmder.listen)
	cmd.Flags().BoolVar(&cmder.mcp, "mcp", false, "Mount the MCP server at /mcp")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *webCommander) run(cmd *cobra.Command) error {
	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	client, err := c.settings.NewClient(log)
	if err != nil {
		return err
	}

	server, err := api.NewServer(api.Config{
		ListenAddr:   c.settings.WebListen,
		ResultCount:  c.settings.ResultCount,
		Debounce:     c.settings.Debounce,
		PollInterval: c.settings.PollInterval,
		Weights:      c.settings.Weights,
		MCP:          c.mcp,
	}, client, log)
	if err != nil {
		return fmt.Errorf("creating web server: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Similicana web running at %s (backend %s)\n", displayAddr(c.settings.WebListen), client.BaseURL())
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop.")

	return server.Run(cmd.Context())
}

func (c *webCommander) newLogger() (*slog.Logger, func() error, error) {
	console := logger.Console(c.debug)
	if c.logFile == "" {
		return console, func() error { return nil }, nil
	}

	file, closeFile, err := logger.OpenFile(c.logFile, logger.WithDebug(c.debug), logger.WithPrefix("web"))
	if err != nil {
		return nil, nil, err
	}
	return logger.Multi(console, file), closeFile, nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
