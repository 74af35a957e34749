package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhq/fairy/internal/adapters/outbound/config"
	"github.com/fairyhq/fairy/internal/adapters/outbound/report"
	"github.com/fairyhq/fairy/internal/adapters/outbound/rulepacks"
	"github.com/fairyhq/fairy/internal/adapters/outbound/scanner"
	"github.com/fairyhq/fairy/internal/adapters/outbound/table"
	"github.com/fairyhq/fairy/internal/adapters/outbound/tui"
	"github.com/fairyhq/fairy/internal/application"
	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/validator"
)

func newValidateCmd() *cobra.Command {
	var (
		kind       string
		outDir     string
		reportJSON string
		reportMD   string
		rulepack   string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "validate <input>",
		Short: "Validate a single metadata table and write report_v0.json",
		Long: "Validate one table (or a directory holding exactly one table) with the validator for --kind " +
			"and write a schema-checked report. --report-json and --report-md write to explicit paths " +
			"instead of <out>/report_v0.json; --dry-run prints the report without writing anything.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := scanner.ResolveInput(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.New().Load(".")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("kind") {
				kind = cfg.EffectiveKind()
			}
			if !cmd.Flags().Changed("out") {
				outDir = cfg.EffectiveOutDir()
			}
			if rulepack == "" {
				rulepack = cfg.Rulepack
			}

			refs := []domain.RulepackRef{}
			if rulepack != "" {
				pack, err := rulepacks.New().Load(rulepack)
				if err != nil {
					return err
				}
				refs = append(refs, pack.Ref())
			}

			writer, err := report.New()
			if err != nil {
				return err
			}
			svc := application.NewValidateService(table.New(), validator.NewDefaultRegistry(), writer)

			explicit := reportJSON != "" || reportMD != ""
			req := application.ValidateRequest{
				InputPath:  input,
				Kind:       kind,
				Rulepacks:  refs,
				Provenance: cfg.Provenance,
			}
			if !dryRun && !explicit {
				req.OutDir = outDir
			}

			res, err := svc.Validate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if dryRun {
				data, err := report.Encode(res.Report)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			out := cmd.OutOrStdout()
			if reportJSON != "" {
				if err := report.WriteJSON(reportJSON, res.Report); err != nil {
					return fmt.Errorf("writing %s: %w", reportJSON, err)
				}
				fmt.Fprintf(out, "Wrote %s\n", reportJSON)
			}
			if reportMD != "" {
				if err := report.WriteMarkdown(reportMD, report.RenderV0Markdown(res.Report)); err != nil {
					return fmt.Errorf("writing %s: %w", reportMD, err)
				}
				fmt.Fprintf(out, "Wrote %s\n", reportMD)
			}
			if !explicit {
				fmt.Fprint(out, tui.RenderValidation(res.Report, res.Path))
			}
			// Warnings never fail the command.
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", domain.DefaultKind, "Validator kind (rna, generic, ...); unknown kinds fall back to generic")
	cmd.Flags().StringVar(&outDir, "out", domain.DefaultOutDir, "Output directory for report_v0.json")
	cmd.Flags().StringVar(&reportJSON, "report-json", "", "Write the JSON report to PATH instead of the output directory")
	cmd.Flags().StringVar(&reportMD, "report-md", "", "Write a Markdown summary to PATH")
	cmd.Flags().StringVar(&rulepack, "rulepack", "", "Rulepack to record in the report")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the report to stdout instead of writing it")

	return cmd
}
