package rules

import (
	"log/slog"
	"time"

	"github.com/fairyhq/fairy/internal/domain"
)

// Options control a single rulepack run.
type Options struct {
	ToolVersion string
	Now         time.Time
	Logger      *slog.Logger
}

// Run evaluates every rule of pack in declared order and builds the report.
// A nil files table is treated as empty. Run never writes anything.
func Run(pack *Rulepack, samples, files *domain.Table, opts Options) domain.Report {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	in := Inputs{Samples: orEmpty(samples), Files: orEmpty(files)}

	findings := []domain.Finding{}
	for _, rule := range pack.Rules {
		if u, ok := rule.Check.(UnknownCheck); ok {
			logger.Debug("skipping rule with unknown check type", "code", rule.Code, "type", u.Name)
			continue
		}
		issues := rule.Check.Evaluate(in)
		logger.Debug("rule evaluated", "code", rule.Code, "type", rule.Check.Type(), "issues", len(issues))
		for _, is := range issues {
			findings = append(findings, MapIssue(rule, is))
		}
	}

	return domain.Report{
		Attestation: domain.BuildAttestation(findings, pack.Ref(), opts.ToolVersion, now),
		Findings:    findings,
	}
}

func orEmpty(t *domain.Table) *domain.Table {
	if t != nil {
		return t
	}
	return &domain.Table{Columns: []string{}, Rows: [][]string{}}
}
