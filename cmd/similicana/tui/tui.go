// Package tuicmder provides the interactive terminal front end.
package tuicmder

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/dotdir"
	"github.com/papercomputeco/similicana/pkg/logger"
	"github.com/papercomputeco/similicana/pkg/readiness"
	"github.com/papercomputeco/similicana/pkg/session"
	"github.com/papercomputeco/similicana/pkg/typeahead"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

const tuiLongDesc string = `Search for similar cards interactively.

Type part of a card name to get suggestions, pick one with the arrow keys and
press enter to see the most similar cards. Press tab to tune the similarity
weights with the arrow keys and apply them with "a"; the current search is
run again with the new weights.

The inputs stay disabled until the backend has finished loading cards.

Examples:
  similicana tui
  similicana tui --card "Elsa - Snow Queen"
  similicana tui --debounce 150ms --log-file tui.log`

const tuiShortDesc string = "Search for similar cards interactively"

var flagKeys = []string{
	config.FlagBackend,
	config.FlagTimeout,
	config.FlagRateLimit,
	config.FlagResultCount,
	config.FlagDebounce,
	config.FlagPollInterval,
}

type tuiCommander struct {
	backend      string
	timeout      time.Duration
	rateLimit    float64
	resultCount  int
	debounce     time.Duration
	pollInterval time.Duration
	card         string
	logFile      string

	settings  config.Settings
	configDir string
	debug     bool
}

func NewTUICmd() *cobra.Command {
	cmder := &tuiCommander{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: tuiShortDesc,
		Long:  tuiLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("the tui needs a terminal; use \"similicana find\" in scripts")
			}
			settings, err := config.LoadSettings(cmd, flagKeys...)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.settings = settings
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
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
	cmd.Flags().StringVarP(&cmder.card, "card", "c", "", "Search for this card once the backend is ready")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Write logs to this file")

	return cmd
}

func (c *tuiCommander) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	client, err := c.settings.NewClient(log)
	if err != nil {
		return err
	}

	sess := session.New(nil,
		session.WithResultCount(c.settings.ResultCount),
		session.WithWeights(c.settings.Weights),
	)
	defer sess.Close()

	events := newBridge()
	ta := typeahead.New(client, events,
		typeahead.WithDebounce(c.settings.Debounce),
		typeahead.WithLogger(log),
	)
	ta.Mount(ctx)
	defer ta.Unmount()

	search := session.NewSearchController(sess, client, events, log)
	ddm := dotdir.NewManager()

	m := newModel(deps{
		ctx:         ctx,
		session:     sess,
		typeahead:   ta,
		search:      search,
		weights:     session.NewWeightsController(sess, client, search, events, log),
		bridge:      events,
		backendURL:  client.BaseURL(),
		initialCard: c.card,
		remember: func(name string) {
			last := &dotdir.LastSearch{Card: name, ResultCount: sess.ResultCount(), SearchedAt: time.Now()}
			if err := ddm.SaveLastSearch(last, c.configDir); err != nil {
				log.Debug("could not remember search", "error", err)
			}
		},
	})

	poller := readiness.NewPoller(client, c.settings.PollInterval, log)
	poller.Start(ctx, func() { events.send(readyMsg{}) })
	defer poller.Stop()

	program := bubbletea.NewProgram(m,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, bubbletea.ErrProgramKilled) {
		return err
	}
	return nil
}

// newLogger writes to --log-file when set and discards logs otherwise, as
// the program owns the terminal.
func (c *tuiCommander) newLogger() (*slog.Logger, func() error, error) {
	if c.logFile == "" {
		return logger.Nop(), func() error { return nil }, nil
	}
	return logger.OpenFile(c.logFile, logger.WithDebug(c.debug), logger.WithPrefix("tui"))
}
