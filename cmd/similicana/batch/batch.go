// Package batchcmder provides the batch command for searching a list of
// cards at once.
package batchcmder

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

const batchLongDesc string = `Find similar cards for every card in a list.

Reads one card per line from a file, or from stdin when no file is given.
Blank lines are skipped, a leading quantity such as "4 " is
dropped and repeated names are searched once. Progress is shown while the
backend works through the list.

Examples:
  similicana batch cards.txt
  similicana batch cards.txt -n 3 --markdown
  pbpaste | similicana batch`

const batchShortDesc string = "Find similar cards for a list of cards"

var flagKeys = []string{
	config.FlagBackend,
	config.FlagTimeout,
	config.FlagRateLimit,
	config.FlagResultCount,
	config.FlagPollInterval,
}

type batchCommander struct {
	backend      string
	timeout      time.Duration
	rateLimit    float64
	resultCount  int
	pollInterval time.Duration
	markdown     bool
	wait         bool

	settings config.Settings
	debug    bool
}

func NewBatchCmd() *cobra.Command {
	cmder := &batchCommander{}

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: batchShortDesc,
		Long:  batchLongDesc,
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
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

			input, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return cmder.run(cmd, input)
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagBackend, &cmder.backend)
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagTimeout, &cmder.timeout)
	config.AddFloatFlag(cmd, config.ClientFlags, config.FlagRateLimit, &cmder.rateLimit)
	config.AddIntFlag(cmd, config.ClientFlags, config.FlagResultCount, &cmder.resultCount)
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagPollInterval, &cmder.pollInterval)
	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Render results as markdown")
	cmd.Flags().BoolVarP(&cmder.wait, "wait", "w", false, "Wait for the backend to finish loading")

	return cmd
}

func (c *batchCommander) run(cmd *cobra.Command, input string) error {
	ctx := cmd.Context()
	log := logger.Console(c.debug)

	client, err := c.settings.NewClient(log)
	if err != nil {
		return err
	}

	sess := session.New(client.ProgressSource(),
		session.WithResultCount(c.settings.ResultCount),
		session.WithWeights(c.settings.Weights),
	)
	defer sess.Close()

	if termview.AwaitReady(ctx, cmd.ErrOrStderr(), client, c.settings.PollInterval, c.wait, log) {
		sess.MarkReady()
	}

	view := termview.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), termview.WithMarkdown(c.markdown))
	batch := session.NewBatchController(sess, client, view, log)

	if _, err := batch.Submit(ctx, input); err != nil {
		return fmt.Errorf("%w: %w", cliui.ErrReported, err)
	}
	return nil
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading card list: %w", err)
	}
	return string(data), nil
}
