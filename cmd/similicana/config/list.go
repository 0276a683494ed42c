package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values, grouped by TOML section.

Examples:
  similicana config list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfger, err := configer(cmd)
			if err != nil {
				return err
			}
			return runList(cmd, cfger)
		},
	}
}

func runList(cmd *cobra.Command, cfger *config.Configer) error {
	out := cmd.OutOrStdout()
	printTarget(out, cfger)

	keys := config.ValidConfigKeys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	section := ""
	for _, key := range keys {
		if s, _, _ := strings.Cut(key, "."); s != section {
			if section != "" {
				fmt.Fprintln(out)
			}
			section = s
			fmt.Fprintf(out, "  %s\n", cliui.StepStyle.Render("["+section+"]"))
		}

		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		rendered := cliui.ValueStyle.Render(fmt.Sprintf("%q", value))
		if value == "" {
			rendered = cliui.DimStyle.Render("<not set>")
		}
		fmt.Fprintf(out, "  %s = %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-*s", width, key)), rendered)
	}
	fmt.Fprintln(out)

	return nil
}
