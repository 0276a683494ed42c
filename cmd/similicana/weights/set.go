package weightscmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/card"
	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/config"
)

const setLongDesc string = `Set the weight of one factor.

The weight is a number between 0 and 1 and is stored in config.toml. The
other weights are left alone, so the total may no longer be 1.00; the
totals line shows what is left to distribute.

Examples:
  similicana weights set ability 0.30
  similicana weights set ink_color 0.05`

const setShortDesc string = "Set the weight of one factor"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <factor> <weight>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(cmd, args[0], args[1])
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return factorNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runSet(cmd *cobra.Command, factor, value string) error {
	f := card.Factor(strings.ToLower(strings.TrimSpace(factor)))
	if !f.Valid() {
		return fmt.Errorf("unknown factor: %q\n\nValid factors: %s", factor, strings.Join(factorNames(), ", "))
	}

	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	key := "weights." + string(f)
	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Set %s = %s\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
	)

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	printState(cmd.OutOrStdout(), cfg.WeightVector())
	return nil
}

func factorNames() []string {
	names := make([]string, 0, len(card.Factors))
	for _, f := range card.Factors {
		names = append(names, string(f))
	}
	return names
}
