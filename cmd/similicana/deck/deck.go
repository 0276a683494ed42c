// Package deckcmder provides the deck command for building a deck from a
// decklist.
package deckcmder

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/logger"
	"github.com/papercomputeco/similicana/pkg/session"
	"github.com/papercomputeco/similicana/pkg/termview"
)

const deckLongDesc string = `Build a deck from a decklist.

Sends the decklist to the backend, which resolves each line against your
collection and replies with an analysis and the final deck. The final deck
is printed as a table, or with --export as plain "<count> <name>" lines
ready to paste into a deck builder.

With --watch the decklist file is analyzed again every time it is saved.

Examples:
  similicana deck deck.txt
  similicana deck deck.txt --ignore-collection
  similicana deck deck.txt --export > final.txt
  similicana deck deck.txt --watch
  pbpaste | similicana deck`

const deckShortDesc string = "Build a deck from a decklist"

var flagKeys = []string{
	config.FlagBackend,
	config.FlagTimeout,
	config.FlagRateLimit,
	config.FlagPollInterval,
}

type deckCommander struct {
	backend          string
	timeout          time.Duration
	rateLimit        float64
	pollInterval     time.Duration
	ignoreCollection bool
	export           bool
	watch            bool
	wait             bool

	settings config.Settings
	debug    bool
}

func NewDeckCmd() *cobra.Command {
	cmder := &deckCommander{}

	cmd := &cobra.Command{
		Use:   "deck [file]",
		Short: deckShortDesc,
		Long:  deckLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cmder.watch && len(args) == 0 {
				return fmt.Errorf("--watch needs a decklist file")
			}

			settings, err := config.LoadSettings(cmd, flagKeys...)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cmder.settings = settings
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run(cmd, args)
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagBackend, &cmder.backend)
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagTimeout, &cmder.timeout)
	config.AddFloatFlag(cmd, config.ClientFlags, config.FlagRateLimit, &cmder.rateLimit)
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagPollInterval, &cmder.pollInterval)
	cmd.Flags().BoolVar(&cmder.ignoreCollection, "ignore-collection", false, "Build the deck without checking your collection")
	cmd.Flags().BoolVar(&cmder.export, "export", false, "Print only the final deck as plain text")
	cmd.Flags().BoolVar(&cmder.watch, "watch", false, "Analyze the decklist again whenever the file changes")
	cmd.Flags().BoolVarP(&cmder.wait, "wait", "w", false, "Wait for the backend to finish loading")

	return cmd
}

func (c *deckCommander) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Console(c.debug)

	client, err := c.settings.NewClient(log)
	if err != nil {
		return err
	}

	sess := session.New(client.ProgressSource(), session.WithWeights(c.settings.Weights))
	defer sess.Close()

	if termview.AwaitReady(ctx, cmd.ErrOrStderr(), client, c.settings.PollInterval, c.wait, log) {
		sess.MarkReady()
	}

	out := cmd.OutOrStdout()
	viewOut := out
	if c.export {
		viewOut = io.Discard
	}
	view := termview.New(viewOut, cmd.ErrOrStderr())
	deck := session.NewDeckController(sess, client, view, log)

	analyze := func(decklist string) error {
		result, err := deck.Analyze(ctx, decklist, c.ignoreCollection)
		if err != nil {
			return fmt.Errorf("%w: %w", cliui.ErrReported, err)
		}
		if c.export {
			fmt.Fprintln(out, result.Export)
		}
		return nil
	}

	if c.watch {
		return watch(ctx, args[0], cmd.ErrOrStderr(), log, analyze)
	}

	decklist, err := readDecklist(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	return analyze(decklist)
}

func readDecklist(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading decklist: %w", err)
	}
	return string(data), nil
}
