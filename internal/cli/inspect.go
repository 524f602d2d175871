package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var cf cacheFlags

	cmd := &cobra.Command{
		Use:   "inspect <stats.json|report.html>",
		Short: "Browse chunk groups in the terminal",
		Long: `Browse chunk groups in the terminal.

Lists the chunk groups of a build or an existing html report, largest first.
Selecting a group shows its children with their loading hints and the
chunks and modules it owns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := c.loadDocument(ctx, args[0], cf)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewInspectModel(doc), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
	cf.register(cmd)

	return cmd
}
