package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show FAIRy version and default rulepack",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), versionText())
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", commit)
			return nil
		},
	}
}
