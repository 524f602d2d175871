package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgraph/pkg/buildinfo"
)

// versionCommand prints the build information injected via ldflags.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, buildinfo.String())
		},
	}
}
