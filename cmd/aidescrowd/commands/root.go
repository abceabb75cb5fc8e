/*
Package commands implements the aidescrowd command line interface.
*/
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the aidescrowd command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var home string
	root := &cobra.Command{
		Use:           "aidescrowd",
		Short:         "Aid package escrow node",
		Long:          "A single node ledger holding aid funds in escrow until they are disbursed to their recipients.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&home, "home", DefaultHome(), "directory to store files under")
	root.AddCommand(
		NewInitCmd(&home),
		NewKeysCmd(&home),
		NewTxCmd(&home),
		NewQueryCmd(&home),
		NewServeCmd(&home),
		NewStartCmd(&home),
		NewVersionCmd(),
	)
	return root
}
