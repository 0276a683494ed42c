// Package weightscmder provides the weights command for viewing and tuning
// the similarity weight of each card attribute.
package weightscmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/similicana/pkg/config"
	"github.com/papercomputeco/similicana/pkg/termview"
	"github.com/papercomputeco/similicana/pkg/weights"
)

const weightsLongDesc string = `View and tune similarity weights.

Similarity is a weighted blend of ten card attributes. The weights are kept
in config.toml under [weights] and must sum to 1.00 before they can be
applied to the backend.

Use subcommands to change them:
  similicana weights set <factor> <weight>    Set one weight (0 to 1)
  similicana weights reset                    Restore the default weights
  similicana weights apply                    Send the weights to the backend

Factors: ink_cost, strength, willpower, lore_points, tags, ability,
mechanics, ink_color, card_type, inkwell

Examples:
  similicana weights
  similicana weights set ability 0.30
  similicana weights set tags 0
  similicana weights apply`

const weightsShortDesc string = "View and tune similarity weights"

func NewWeightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: weightsShortDesc,
		Long:  weightsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd)
		},
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newApplyCmd())

	return cmd
}

func runShow(cmd *cobra.Command) error {
	settings, err := config.LoadSettings(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	printState(cmd.OutOrStdout(), settings.Weights)
	return nil
}

func printState(w io.Writer, v weights.Vector) {
	fmt.Fprintln(w)
	fmt.Fprint(w, termview.WeightsText(weights.NewPanel(v).State()))
	fmt.Fprintln(w)
}
