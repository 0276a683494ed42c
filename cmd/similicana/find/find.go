// Package findcmder provides the find command for single card similarity
// searches.
package findcmder

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/dotdir"
	"github.com/papercomputeco/similicana/pkg/logger"
	"github.com/papercomputeco/similicana/pkg/session"
	"github.com/papercomputeco/similicana/pkg/termview"
)

const findLongDesc string = `Find cards similar to one card.

Shows the target card with its cost, stats, ink color and rules text next to
the most similar cards, each with its overall similarity and a per-attribute
breakdown. Differences from the target are marked (+2), (-1) and so on.

The search is remembered so "similicana weights apply" can run it again with
new weights.

Examples:
  similicana find "Elsa - Snow Queen"
  similicana find mickey mouse -n 10
  similicana find "Stitch - Rock Star" --markdown
  similicana find elsa --wait --backend http://localhost:10000`

const findShortDesc string = "Find cards similar to one card"

var flagKeys = []string{
	config.FlagBackend,
	config.FlagTimeout,
	config.FlagRateLimit,
	config.FlagResultCount,
	config.FlagPollInterval,
}

type findCommander struct {
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

func NewFindCmd() *cobra.Command {
	cmder := &findCommander{}

	cmd := &cobra.Command{
		Use:   "find <card name>",
		Short: findShortDesc,
		Long:  findLongDesc,
		Args:  cobra.MinimumNArgs(1),
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

			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd, strings.Join(args, " "), configDir)
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

func (c *findCommander) run(cmd *cobra.Command, name, configDir string) error {
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
	search := session.NewSearchController(sess, client, view, log)

	if _, err := search.Search(ctx, name); err != nil {
		return fmt.Errorf("%w: %w", cliui.ErrReported, err)
	}

	last := &dotdir.LastSearch{
		Card:        sess.SearchTerm(),
		ResultCount: sess.ResultCount(),
		SearchedAt:  time.Now(),
	}
	if err := dotdir.NewManager().SaveLastSearch(last, configDir); err != nil {
		log.Debug("could not remember search", "error", err)
	}
	return nil
}
