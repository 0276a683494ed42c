// Package configcmder provides the config command for managing persistent
// similicana configuration stored in the .similicana/ directory.
package configcmder

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/cliui"
	"github.com/papercomputeco/similicana/pkg/config"
)

const configLongDesc string = `Manage persistent similicana configuration.

Configuration is stored as config.toml in the .similicana/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  client.backend_target, client.timeout, client.rate_limit,
  search.result_count, search.debounce, poll.interval,
  web.listen, mcp.listen, weights.<factor>

Use subcommands to get, set, or list configuration values:
  similicana config set <key> <value>    Set a configuration value
  similicana config get <key>            Get a configuration value
  similicana config list                 List all configuration values
  similicana config path                 Print the config file path

Examples:
  similicana config set client.backend_target http://localhost:10000
  similicana config set search.result_count 10
  similicana config get poll.interval
  similicana config list`

const configShortDesc string = "Manage persistent similicana configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newPathCmd())

	return cmd
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfger, err := configer(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfger.GetTarget())
			return nil
		},
	}
}

func configer(cmd *cobra.Command) (*config.Configer, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfger, nil
}

func printTarget(w io.Writer, cfger *config.Configer) {
	target := cfger.GetTarget()
	if _, err := os.Stat(target); target == "" || err != nil {
		fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
		return
	}
	fmt.Fprintf(w, "\n  %s %s\n\n",
		cliui.KeyStyle.Render("Config file:"),
		cliui.DimStyle.Render(target),
	)
}

func keyCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func checkKey(key string) error {
	if config.IsValidConfigKey(key) {
		return nil
	}
	return fmt.Errorf("unknown config key: %q\n\nRun \"similicana config list\" to see valid keys", key)
}
