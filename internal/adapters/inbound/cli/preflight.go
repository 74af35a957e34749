package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fairyhq/fairy/internal/adapters/outbound/cache"
	"github.com/fairyhq/fairy/internal/adapters/outbound/config"
	"github.com/fairyhq/fairy/internal/adapters/outbound/gitinfo"
	"github.com/fairyhq/fairy/internal/adapters/outbound/history"
	"github.com/fairyhq/fairy/internal/adapters/outbound/report"
	"github.com/fairyhq/fairy/internal/adapters/outbound/rulepacks"
	"github.com/fairyhq/fairy/internal/adapters/outbound/table"
	"github.com/fairyhq/fairy/internal/adapters/outbound/tui"
	"github.com/fairyhq/fairy/internal/application"
	"github.com/fairyhq/fairy/internal/domain"
)

func newPreflightCmd() *cobra.Command {
	var (
		projectPath string
		samples     string
		files       string
		rulepack    string
		jsonOutput  bool
		reportJSON  string
		reportMD    string
		ciMode      bool
		noHistory   bool
		noFiles     bool
	)

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Run a rulepack over a samples/files table pair",
		Long: "Evaluate every rule of a rulepack (GEO-SEQ-BULK by default) over the samples and files tables " +
			"and report whether the dataset is ready to submit. Tables default to the ones named in .fairy.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := config.New().Load(absPath)
			if err != nil {
				return err
			}
			tables := cfg.EffectiveTables()
			if samples == "" {
				samples = filepath.Join(absPath, tables.Samples)
			}
			if files == "" && !noFiles {
				files = filepath.Join(absPath, tables.Files)
			}
			if rulepack == "" && cfg.Rulepack != "" {
				rulepack = cfg.Rulepack
				if !filepath.IsAbs(rulepack) {
					rulepack = filepath.Join(absPath, rulepack)
				}
			}

			svc := application.NewPreflightService(
				table.New(),
				rulepacks.New(),
				gitinfo.New(),
				history.New(),
				version,
			).WithBaseline(cache.New())
			rep, err := svc.Run(cmd.Context(), application.PreflightRequest{
				ProjectPath:   absPath,
				SamplesPath:   samples,
				FilesPath:     files,
				RulepackPath:  rulepack,
				RecordHistory: !noHistory,
			})
			if err != nil {
				return err
			}

			var drift domain.Drift
			if !noHistory {
				if drift, err = svc.CompareBaseline(absPath, *rep); err != nil {
					return err
				}
			}

			if reportJSON != "" {
				if err := report.WriteJSON(reportJSON, rep); err != nil {
					return fmt.Errorf("writing %s: %w", reportJSON, err)
				}
			}
			if reportMD != "" {
				if err := report.WriteMarkdown(reportMD, report.RenderFindingsMarkdown(*rep)); err != nil {
					return fmt.Errorf("writing %s: %w", reportMD, err)
				}
			}

			if jsonOutput {
				if err := renderJSON(cmd, rep); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderPreflight(*rep))
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderDrift(drift))
			}

			if (ciMode || cfg.FailOnNotReady) && !rep.Attestation.SubmissionReady {
				return fmt.Errorf("dataset is not ready for submission: %d FAIL finding(s)", rep.Attestation.FailCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project directory holding .fairy.yaml and run history")
	cmd.Flags().StringVar(&samples, "samples", "", "Samples table (default: tables.samples from .fairy.yaml, else samples.tsv)")
	cmd.Flags().StringVar(&files, "files", "", "Files table (default: tables.files from .fairy.yaml, else files.tsv)")
	cmd.Flags().StringVar(&rulepack, "rulepack", "", "Rulepack file or directory (default: built-in "+rulepacks.DefaultName+")")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&reportJSON, "report-json", "", "Also write the JSON report to PATH")
	cmd.Flags().StringVar(&reportMD, "report-md", "", "Also write a Markdown summary to PATH")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 unless the dataset is submission ready")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in .fairy/history or update the baseline")
	cmd.Flags().BoolVar(&noFiles, "no-files", false, "Run without a files table; cross-table rules see no file rows")
	cmd.MarkFlagsMutuallyExclusive("files", "no-files")

	return cmd
}

// renderJSON prints v in the same canonical form reports are written in.
func renderJSON(cmd *cobra.Command, v any) error {
	data, err := report.Encode(v)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
