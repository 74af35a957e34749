package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fairyhq/fairy/internal/adapters/outbound/rulepacks"
	"github.com/fairyhq/fairy/internal/domain/rules"
)

func newRulesCmd() *cobra.Command {
	var (
		rulepack   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules of a rulepack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pack, err := rulepacks.New().Load(rulepack)
			if err != nil {
				return err
			}
			if jsonOutput {
				return renderJSON(cmd, pack)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s@%s (%d rules)\n\n", pack.ID, pack.Version, len(pack.Rules))
			for _, r := range pack.Rules {
				typ := r.Check.Type()
				if _, unknown := r.Check.(rules.UnknownCheck); unknown {
					typ += " (unsupported, skipped)"
				}
				fmt.Fprintf(out, "  %-30s %s\n", r.Code, typ)
				if r.Why != "" {
					fmt.Fprintf(out, "  %-30s %s\n", "", strings.TrimSpace(r.Why))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulepack, "rulepack", "", "Rulepack file or directory (default: built-in "+rulepacks.DefaultName+")")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the compiled rulepack as JSON")

	return cmd
}
