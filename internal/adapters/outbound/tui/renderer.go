package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fairyhq/fairy/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderPreflight renders a rulepack run: verdict box, inputs, then FAIL
// findings before WARN findings.
func RenderPreflight(rep domain.Report) string {
	var b strings.Builder
	a := rep.Attestation

	verdict := passStyle.Bold(true).Render("SUBMISSION READY")
	if !a.SubmissionReady {
		verdict = failStyle.Bold(true).Render("NOT READY")
	}
	title := headerStyle.Render("FAIRy preflight")
	pack := dimStyle.Render(fmt.Sprintf("%s@%s", a.RulepackID, a.RulepackVersion))
	counts := fmt.Sprintf("%s  %s",
		errorTagStyle.Render(fmt.Sprintf("%d FAIL", a.FailCount)),
		warnTagStyle.Render(fmt.Sprintf("%d WARN", a.WarnCount)),
	)
	b.WriteString(boxStyle.Render(title + "\n" + pack + "\n\n" + verdict + "\n" + counts))
	b.WriteString("\n\n")

	for _, in := range rep.Inputs {
		fmt.Fprintf(&b, "  %s %s  %s\n",
			titleStyle.Render(padRight(in.Role, 8)),
			fileStyle.Render(in.Path),
			faintStyle.Render(fmt.Sprintf("%d rows × %d cols  sha256 %s", in.Rows, in.Cols, short(in.SHA256, 12))),
		)
	}
	if len(rep.Inputs) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("  " + separatorLine + "\n\n")

	if len(rep.Findings) == 0 {
		b.WriteString("  " + passStyle.Render("No findings.") + "\n")
	} else {
		for _, sev := range []string{domain.FindingFail, domain.FindingWarn} {
			for _, f := range rep.Findings {
				if f.Severity == sev {
					renderFinding(&b, f)
				}
			}
		}
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("fairy %s · run at %s", a.FairyVersion, a.RunAtUTC)
	if rep.CommitHash != "" {
		footer += " · commit " + short(rep.CommitHash, 7)
	}
	b.WriteString("  " + faintStyle.Render(footer) + "\n")
	return b.String()
}

func renderFinding(b *strings.Builder, f domain.Finding) {
	tag := warnTagStyle.Render("WARN")
	if f.Severity == domain.FindingFail {
		tag = errorTagStyle.Render("FAIL")
	}
	fmt.Fprintf(b, "    %s %s  %s\n", tag, titleStyle.Render(f.Code), fileStyle.Render(f.Where))
	fmt.Fprintf(b, "         %s\n", dimStyle.Render(f.Details.Message))
	if f.HowToFix != "" {
		fmt.Fprintf(b, "         %s\n", faintStyle.Render("fix: "+f.HowToFix))
	}
}

// RenderDrift summarizes how findings changed since the baseline run. It
// renders nothing when there was no comparable baseline.
func RenderDrift(d domain.Drift) string {
	if !d.HasBaseline() {
		return ""
	}
	if len(d.New) == 0 && len(d.Resolved) == 0 {
		return "  " + dimStyle.Render("No change since "+d.BaselineRunAt) + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n",
		titleStyle.Render("Since "+d.BaselineRunAt+":"),
		dimStyle.Render(fmt.Sprintf("%d new, %d resolved", len(d.New), len(d.Resolved))),
	)
	for _, f := range d.New {
		fmt.Fprintf(&b, "    %s %s  %s\n", failStyle.Render("+"), f.Code, fileStyle.Render(f.Where))
	}
	for _, f := range d.Resolved {
		fmt.Fprintf(&b, "    %s %s  %s\n", passStyle.Render("-"), f.Code, fileStyle.Render(f.Where))
	}
	return b.String()
}

// RenderHistory formats recorded preflight runs for terminal output.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := short(e.CommitHash, 7)
		if hash == "" {
			hash = "·······"
		}

		status := passStyle.Render("ready    ")
		if !e.SubmissionReady {
			status = failStyle.Render("not ready")
		}

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(short(e.RunAtUTC, 10)),
			faintStyle.Render(hash),
			status,
			fmt.Sprintf("%d FAIL %d WARN", e.FailCount, e.WarnCount),
		)

		if i > 0 {
			diff := e.FailCount - entries[i-1].FailCount
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func short(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
