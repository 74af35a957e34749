package domain

import "fmt"

// Drift is how a run's findings changed since the previous baseline run.
type Drift struct {
	BaselineRunID string    `json:"baseline_run_id"`
	BaselineRunAt string    `json:"baseline_run_at_utc"`
	New           []Finding `json:"new"`
	Resolved      []Finding `json:"resolved"`
}

// HasBaseline reports whether there was a comparable previous run.
func (d Drift) HasBaseline() bool { return d.BaselineRunID != "" || d.BaselineRunAt != "" }

// DiffFindings compares a run against its baseline. Findings are matched by
// code, location and message; order follows the report each side came from.
// A baseline from a different rulepack or version is not comparable and
// yields an empty Drift.
func DiffFindings(baseline *Report, current Report) Drift {
	if baseline == nil ||
		baseline.Attestation.RulepackID != current.Attestation.RulepackID ||
		baseline.Attestation.RulepackVersion != current.Attestation.RulepackVersion {
		return Drift{New: []Finding{}, Resolved: []Finding{}}
	}

	before := countFindings(baseline.Findings)
	after := countFindings(current.Findings)

	d := Drift{
		BaselineRunID: baseline.RunID,
		BaselineRunAt: baseline.Attestation.RunAtUTC,
		New:           []Finding{},
		Resolved:      []Finding{},
	}
	for _, f := range current.Findings {
		k := findingKey(f)
		if before[k] > 0 {
			before[k]--
			continue
		}
		d.New = append(d.New, f)
	}
	for _, f := range baseline.Findings {
		k := findingKey(f)
		if after[k] > 0 {
			after[k]--
			continue
		}
		d.Resolved = append(d.Resolved, f)
	}
	return d
}

func countFindings(findings []Finding) map[string]int {
	m := make(map[string]int, len(findings))
	for _, f := range findings {
		m[findingKey(f)]++
	}
	return m
}

func findingKey(f Finding) string {
	return fmt.Sprintf("%s:%s:%s", f.Code, f.Where, f.Details.Message)
}
