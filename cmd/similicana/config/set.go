package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
)

const setLongDesc string = `Set a configuration value.

Values are checked before they are written: durations use Go syntax such
as 500ms or 2s, search.result_count must be at least 1 and each weight must
be between 0 and 1.

Examples:
  similicana config set client.backend_target http://cards.local:10000
  similicana config set search.debounce 200ms
  similicana config set client.rate_limit 5`

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Set a configuration value",
		Long:              setLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: keyCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := checkKey(key); err != nil {
				return err
			}

			cfger, err := configer(cmd)
			if err != nil {
				return err
			}

			if err := cfger.SetConfigValue(key, value); err != nil {
				return err
			}
			printTarget(cmd.OutOrStdout(), cfger)

			fmt.Fprintf(cmd.OutOrStdout(), "  %s Set %s = %s\n\n",
				cliui.SuccessMark,
				cliui.KeyStyle.Render(key),
				cliui.ValueStyle.Render(value),
			)
			return nil
		},
	}
}
