package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"skin-animator/internal/rig"
)

// NewBuiltinsCommand lists the embedded rigs.
func NewBuiltinsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the embedded rigs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range rig.Builtins() {
				fmt.Fprintln(cmd.OutOrStdout(), rig.BuiltinPrefix+name)
			}
			return nil
		},
	}
}
