package report

import (
	"fmt"
	"strings"

	"github.com/fairyhq/fairy/internal/domain"
)

// RenderV0Markdown summarizes a ReportV0 for humans.
func RenderV0Markdown(rep domain.ReportV0) string {
	var b strings.Builder
	b.WriteString("# FAIRy Validation Report\n\n")
	fmt.Fprintf(&b, "**Run at:** %s\n", rep.RunAt)
	fmt.Fprintf(&b, "**File:** %s\n", rep.DatasetID.Filename)
	fmt.Fprintf(&b, "**SHA256:** %s\n\n", rep.DatasetID.SHA256)

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Rows: %d\n", rep.Summary.NRows)
	fmt.Fprintf(&b, "- Cols: %d\n", rep.Summary.NCols)
	fmt.Fprintf(&b, "- Fields validated: %d\n\n", len(rep.Summary.FieldsValidated))

	b.WriteString("## Warnings\n")
	if len(rep.Warnings) == 0 {
		b.WriteString("- None\n")
	}
	for _, w := range rep.Warnings {
		if w.Index >= 0 {
			fmt.Fprintf(&b, "- `%s` %s (row %d): %s\n", w.Column, w.Check, w.Index, w.Failure)
		} else {
			fmt.Fprintf(&b, "- `%s` %s: %s\n", w.Column, w.Check, w.Failure)
		}
	}
	return b.String()
}

// RenderFindingsMarkdown summarizes a rulepack run for humans.
func RenderFindingsMarkdown(rep domain.Report) string {
	a := rep.Attestation
	var b strings.Builder
	b.WriteString("# FAIRy Preflight Report\n\n")
	fmt.Fprintf(&b, "**Rulepack:** %s@%s\n", a.RulepackID, a.RulepackVersion)
	fmt.Fprintf(&b, "**FAIRy:** %s\n", a.FairyVersion)
	fmt.Fprintf(&b, "**Run at (UTC):** %s\n", a.RunAtUTC)
	if rep.CommitHash != "" {
		fmt.Fprintf(&b, "**Commit:** %s\n", rep.CommitHash)
	}
	verdict := "NOT READY"
	if a.SubmissionReady {
		verdict = "READY"
	}
	fmt.Fprintf(&b, "**Submission ready:** %s (%d FAIL, %d WARN)\n", verdict, a.FailCount, a.WarnCount)

	if len(rep.Inputs) > 0 {
		b.WriteString("\n## Inputs\n")
		for _, in := range rep.Inputs {
			fmt.Fprintf(&b, "- %s: `%s` (%d rows, %d cols, sha256 %s)\n", in.Role, in.Path, in.Rows, in.Cols, in.SHA256)
		}
	}

	writeFindings(&b, "FAIL", rep.Findings, domain.FindingFail)
	writeFindings(&b, "WARN", rep.Findings, domain.FindingWarn)
	return b.String()
}

func writeFindings(b *strings.Builder, title string, findings []domain.Finding, severity string) {
	fmt.Fprintf(b, "\n## %s\n", title)
	n := 0
	for _, f := range findings {
		if f.Severity != severity {
			continue
		}
		n++
		fmt.Fprintf(b, "- **%s** at %s: %s\n", f.Code, f.Where, f.Details.Message)
		if f.HowToFix != "" {
			fmt.Fprintf(b, "  - Fix: %s\n", f.HowToFix)
		}
	}
	if n == 0 {
		b.WriteString("- None\n")
	}
}

// WriteMarkdown writes text to path through a temporary file.
func WriteMarkdown(path, text string) error {
	return writeAtomic(path, []byte(text))
}
