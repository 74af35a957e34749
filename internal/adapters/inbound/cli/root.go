package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhq/fairy/internal/adapters/outbound/config"
	"github.com/fairyhq/fairy/internal/adapters/outbound/rulepacks"
	"github.com/fairyhq/fairy/internal/logging"
)

var (
	version = "0.1.0"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "fairy",
		Short: "Check research datasets before you submit them",
		Long: "FAIRy validates sample and file tables against repository rulepacks " +
			"and writes deterministic, schema-checked readiness reports.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over .fairy.yaml; a broken config surfaces in the
			// command that loads it, not here.
			if cfg, err := config.New().Load("."); err == nil {
				l := cfg.EffectiveLog()
				if !cmd.Flags().Changed("log-level") {
					logLevel = l.Level
				}
				if !cmd.Flags().Changed("log-format") {
					logFormat = l.Format
				}
			}
			logging.Setup(logLevel, logFormat, cmd.ErrOrStderr())
			return nil
		},
	}
	cmd.SetVersionTemplate(versionText() + "\n")

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newPreflightCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

// Version returns the engine version.
func Version() string { return version }

func versionText() string {
	return fmt.Sprintf("fairy %s\nrulepack: %s", version, rulepacks.DefaultName)
}
