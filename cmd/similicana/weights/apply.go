package weightscmder

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/dotdir"
	"github.com/papercomputeco/similicana/pkg/logger"
	"github.com/papercomputeco/similicana/pkg/session"
	"github.com/papercomputeco/similicana/pkg/termview"
	"github.com/papercomputeco/similicana/pkg/weights"
)

const applyLongDesc string = `Send the configured weights to the backend.

The weights must sum to 1.00. When the backend accepts them and a search
was made with "similicana find", that search is run again so the new
ranking is shown straight away.

Examples:
  similicana weights apply
  similicana weights apply --no-search`

const applyShortDesc string = "Send the weights to the backend"

var flagKeys = []string{
	config.FlagBackend,
	config.FlagTimeout,
	config.FlagRateLimit,
	config.FlagPollInterval,
}

type applyCommander struct {
	backend      string
	timeout      time.Duration
	rateLimit    float64
	pollInterval time.Duration
	noSearch     bool
	wait         bool

	settings  config.Settings
	configDir string
	debug     bool
}

func newApplyCmd() *cobra.Command {
	cmder := &applyCommander{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: applyShortDesc,
		Long:  applyLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
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
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagPollInterval, &cmder.pollInterval)
	cmd.Flags().BoolVar(&cmder.noSearch, "no-search", false, "Do not run the last search again")
	cmd.Flags().BoolVarP(&cmder.wait, "wait", "w", false, "Wait for the backend to finish loading")

	return cmd
}

func (c *applyCommander) run(cmd *cobra.Command) error {
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

	if !c.noSearch {
		last, err := dotdir.NewManager().LoadLastSearch(c.configDir)
		if err != nil {
			log.Debug("could not load last search", "error", err)
		}
		if last != nil {
			sess.SetSearchTerm(last.Card)
			sess.SetResultCount(last.ResultCount)
		}
	}

	view := termview.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	search := session.NewSearchController(sess, client, view, log)
	ctrl := session.NewWeightsController(sess, client, search, view, log)

	_, err = ctrl.Apply(ctx)
	switch {
	case errors.Is(err, weights.ErrInvalidWeights):
		printState(cmd.ErrOrStderr(), ctrl.Vector())
		return err
	case err != nil:
		return fmt.Errorf("%w: %w", cliui.ErrReported, err)
	}

	if sess.SearchTerm() == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s Weights applied\n", cliui.SuccessMark)
	}
	return nil
}
