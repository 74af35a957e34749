package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fairyhq/fairy/internal/adapters/outbound/config"
	"github.com/fairyhq/fairy/internal/adapters/outbound/scanner"
	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/validator"
)

func newInitCmd() *cobra.Command {
	var (
		kind  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .fairy.yaml configuration file",
		Long: "Create a .fairy.yaml for a dataset directory. Samples and files tables are guessed " +
			"from the table files found in the directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			registry := validator.NewDefaultRegistry()
			if _, ok := registry.Lookup(kind); !ok {
				return fmt.Errorf("unknown kind %q (valid: %s)", kind, strings.Join(registry.Kinds(), ", "))
			}

			scan, err := scanner.New().Scan(absPath)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", absPath, err)
			}

			cfg := domain.DefaultConfig()
			cfg.Kind = kind
			cfg.OutDir = domain.DefaultOutDir
			cfg.Log = domain.LogConfig{Level: domain.DefaultLogLevel, Format: domain.DefaultLogFormat}
			cfg.Tables = domain.TablesConfig{Samples: scan.SamplesTable, Files: scan.FilesTable}
			cfg.Tables = cfg.EffectiveTables()

			if _, err := config.Write(absPath, cfg, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			fmt.Fprintf(cmd.OutOrStdout(), "  samples: %s\n  files:   %s\n", cfg.Tables.Samples, cfg.Tables.Files)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", domain.DefaultKind, "Validator kind recorded in the config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .fairy.yaml")

	return cmd
}
