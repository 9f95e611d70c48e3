package commands

import (
	"github.com/spf13/cobra"
	"go.masonbuild.dev/mason/internal/adapters/workspace"
)

func (c *CLI) newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock [dir]",
		Short: "Resolve workspace dependencies and write the lock graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			graph, err := c.app.Lock(cmd.Context(), dir)
			if err != nil {
				return err
			}

			if stdout, _ := cmd.Flags().GetBool("stdout"); stdout {
				return workspace.EncodeLockfile(cmd.OutOrStdout(), graph)
			}
			return workspace.WriteLockfile(dir, graph)
		},
	}
	cmd.Flags().Bool("stdout", false, "Print the lock graph instead of writing "+workspace.LockfileName)
	return cmd
}
