package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from config.toml. Keys that are not set
in the file show their default.

Examples:
  similicana config get client.backend_target
  similicana config get weights.ability`

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Get a configuration value",
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: keyCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := checkKey(key); err != nil {
				return err
			}

			cfger, err := configer(cmd)
			if err != nil {
				return err
			}
			printTarget(cmd.OutOrStdout(), cfger)

			value, err := cfger.GetConfigValue(key)
			if err != nil {
				return err
			}

			rendered := cliui.ValueStyle.Render(value)
			if value == "" {
				rendered = cliui.DimStyle.Render("<not set>")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n\n", cliui.KeyStyle.Render(key), rendered)
			return nil
		},
	}
}
