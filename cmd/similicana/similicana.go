// Package similicanacmder
package similicanacmder

import (
	"github.com/spf13/cobra"

	batchcmder "github.com/papercomputeco/similicana/cmd/similicana/batch"
	configcmder "github.com/papercomputeco/similicana/cmd/similicana/config"
	deckcmder "github.com/papercomputeco/similicana/cmd/similicana/deck"
	findcmder "github.com/papercomputeco/similicana/cmd/similicana/find"
	mcpcmder "github.com/papercomputeco/similicana/cmd/similicana/mcp"
	statuscmder "github.com/papercomputeco/similicana/cmd/similicana/status"
	tuicmder "github.com/papercomputeco/similicana/cmd/similicana/tui"
	webcmder "github.com/papercomputeco/similicana/cmd/similicana/web"
	weightscmder "github.com/papercomputeco/similicana/cmd/similicana/weights"
	versioncmder "github.com/papercomputeco/similicana/cmd/version"
)

const similicanaLongDesc string = `Similicana finds Lorcana cards that play like the ones you know.

It talks to a running card similarity backend. Search from the terminal:
  similicana find "Elsa - Snow Queen"    Show cards similar to one card
  similicana batch cards.txt             Search a list of cards
  similicana deck deck.txt               Build a deck from a decklist
  similicana weights                     Show or tune similarity weights

Or run an interface:
  similicana tui                         Interactive terminal search
  similicana web                         Local web front end
  similicana mcp                         MCP server for agents`

const similicanaShortDesc string = "Similicana - Lorcana card similarity"

func NewSimilicanaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "similicana",
		Short:         similicanaShortDesc,
		Long:          similicanaLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .similicana/ config directory")

	// Add subcommands
	cmd.AddCommand(findcmder.NewFindCmd())
	cmd.AddCommand(batchcmder.NewBatchCmd())
	cmd.AddCommand(deckcmder.NewDeckCmd())
	cmd.AddCommand(weightscmder.NewWeightsCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(tuicmder.NewTUICmd())
	cmd.AddCommand(webcmder.NewWebCmd())
	cmd.AddCommand(mcpcmder.NewMCPCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
