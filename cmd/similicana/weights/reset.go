package weightscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/weights"
)

const resetShortDesc string = "Restore the default weights"

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: resetShortDesc,
		Long: `Restore the default weights in config.toml.

The defaults sum to 1.00. Run "similicana weights apply" to send them to
the backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReset(cmd)
		},
	}

	return cmd
}

func runReset(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	defaults := weights.Defaults()
	cfg.Weights = config.WeightsConfig(defaults.Map())
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n  %s Restored default weights\n", cliui.SuccessMark)
	printState(cmd.OutOrStdout(), defaults)
	return nil
}
