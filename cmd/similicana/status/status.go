// Package statuscmder provides the status command for checking whether the
// similarity backend has finished loading cards.
package statuscmder

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/dotdir"
	"github.com/papercomputeco/similicana/pkg/logger"
	"github.com/papercomputeco/similicana/pkg/session"
	"github.com/papercomputeco/similicana/pkg/termview"
)

const statusLongDesc string = `Show whether the similarity backend is ready.

The backend loads and indexes the card pool when it starts and refuses
searches until it is done. Exits non-zero while it is still initializing or
cannot be reached, so the command can gate scripts.

Also shows the last search made with "similicana find".

Examples:
  similicana status
  similicana status --wait
  similicana status --backend http://localhost:10000`

const statusShortDesc string = "Show whether the backend is ready"

var flagKeys = []string{
	config.FlagBackend,
	config.FlagTimeout,
	config.FlagPollInterval,
}

type statusCommander struct {
	backend      string
	timeout      time.Duration
	pollInterval time.Duration
	wait         bool

	settings  config.Settings
	configDir string
	debug     bool
}

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
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
	config.AddDurationFlag(cmd, config.ClientFlags, config.FlagPollInterval, &cmder.pollInterval)
	cmd.Flags().BoolVarP(&cmder.wait, "wait", "w", false, "Wait for the backend to finish loading")

	return cmd
}

func (c *statusCommander) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := logger.Console(c.debug)

	client, err := c.settings.NewClient(log)
	if err != nil {
		return err
	}

	ready := termview.AwaitReady(ctx, cmd.ErrOrStderr(), client, c.settings.PollInterval, c.wait, log)

	fmt.Fprintf(out, "\n  %s  %s\n", cliui.KeyStyle.Render("Backend:"), cliui.ValueStyle.Render(client.BaseURL()))
	if ready {
		fmt.Fprintf(out, "  %s  %s Ready\n", cliui.KeyStyle.Render("Status: "), cliui.SuccessMark)
	} else {
		fmt.Fprintf(out, "  %s  %s %s\n", cliui.KeyStyle.Render("Status: "), cliui.FailMark, session.MsgNotReady)
	}

	last, err := dotdir.NewManager().LoadLastSearch(c.configDir)
	if err != nil {
		log.Debug("could not load last search", "error", err)
	}
	if last != nil {
		fmt.Fprintf(out, "  %s  %s %s\n",
			cliui.KeyStyle.Render("Last:   "),
			cliui.ValueStyle.Render(last.Card),
			cliui.DimStyle.Render("("+strconv.Itoa(last.ResultCount)+" results, "+last.SearchedAt.Format(time.DateTime)+")"),
		)
	}
	fmt.Fprintln(out)

	if !ready {
		return fmt.Errorf("%w: %w", cliui.ErrReported, session.ErrNotReady)
	}
	return nil
}
