package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fairyhq/fairy/internal/domain"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	warningItemStyle   = lipgloss.NewStyle().Foreground(warning)
	hintStyle          = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// RenderValidation renders a legacy ReportV0 and where it was written.
func RenderValidation(rep domain.ReportV0, path string) string {
	var b strings.Builder

	fileLine := titleStyle.Render(rep.DatasetID.Filename) + "  " +
		dimStyle.Render(fmt.Sprintf("%d rows × %d cols", rep.Summary.NRows, rep.Summary.NCols))
	hashLine := faintStyle.Render("sha256 " + rep.DatasetID.SHA256)
	b.WriteString(boxStyle.Render(fileLine + "\n" + hashLine))
	b.WriteString("\n")

	if len(rep.Summary.FieldsValidated) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render("Fields validated"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(rep.Summary.FieldsValidated))),
		)
		fmt.Fprintf(&b, "    %s\n", strings.Join(rep.Summary.FieldsValidated, ", "))
	}

	b.WriteString("\n")
	if len(rep.Warnings) == 0 {
		b.WriteString("  " + passStyle.Render("No warnings.") + "\n")
	} else {
		fmt.Fprintf(&b, "  %s %s\n",
			sectionHeaderStyle.Render("Warnings"),
			dimStyle.Render(fmt.Sprintf("(%d)", len(rep.Warnings))),
		)
		for _, w := range rep.Warnings {
			where := fileStyle.Render(w.Column)
			if w.Index >= 0 {
				where += faintStyle.Render(fmt.Sprintf(" row %d", w.Index))
			}
			fmt.Fprintf(&b, "    %s %s  %s %s\n", warningItemStyle.Render("●"), where, w.Check, dimStyle.Render(w.Failure))
		}
	}

	if path != "" {
		b.WriteString("\n")
		b.WriteString("  " + hintStyle.Render("Wrote "+path))
		b.WriteString("\n")
	}

	return b.String()
}
