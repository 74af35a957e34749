package domain

import "time"

// Issue severities produced by checks.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Finding severities.
const (
	FindingFail = "FAIL"
	FindingWarn = "WARN"
)

// RunAtLayout renders run timestamps in UTC with second precision and a
// literal trailing Z.
const RunAtLayout = "2006-01-02T15:04:05Z"

// FormatRunAt renders t as a run timestamp.
func FormatRunAt(t time.Time) string {
	return t.UTC().Format(RunAtLayout)
}

// Issue is the raw output of a single check invocation.
type Issue struct {
	Kind     string  `json:"kind"`
	Message  string  `json:"message"`
	Severity string  `json:"severity"`
	Row      *int    `json:"row,omitempty"`
	Column   *string `json:"column,omitempty"`
	Hint     *string `json:"hint,omitempty"`
}

// IsError reports whether the issue blocks submission.
func (i Issue) IsError() bool { return i.Severity == SeverityError }

// Finding is an Issue attributed to the rule that produced it.
type Finding struct {
	Code     string         `json:"code"`
	Severity string         `json:"severity"`
	Where    string         `json:"where"`
	Why      string         `json:"why"`
	HowToFix string         `json:"how_to_fix"`
	Details  FindingDetails `json:"details"`
}

// FindingDetails carries the originating issue.
type FindingDetails struct {
	Kind    string  `json:"kind"`
	Message string  `json:"message"`
	Hint    *string `json:"hint"`
	Row     *int    `json:"row"`
	Column  *string `json:"column"`
}

// Attestation is the summary verdict for one rulepack run.
type Attestation struct {
	RulepackID      string `json:"rulepack_id"`
	RulepackVersion string `json:"rulepack_version"`
	FairyVersion    string `json:"fairy_version"`
	RunAtUTC        string `json:"run_at_utc"`
	SubmissionReady bool   `json:"submission_ready"`
	FailCount       int    `json:"fail_count"`
	WarnCount       int    `json:"warn_count"`
}

// Report is the result of running a rulepack over a samples/files pair.
type Report struct {
	Attestation Attestation   `json:"attestation"`
	Findings    []Finding     `json:"findings"`
	RunID       string        `json:"run_id,omitempty"`
	CommitHash  string        `json:"commit_hash,omitempty"`
	Inputs      []InputDigest `json:"inputs,omitempty"`
}

// InputDigest identifies one table that fed a run.
type InputDigest struct {
	Role   string `json:"role"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
}

// BuildAttestation counts findings by severity and stamps the verdict.
func BuildAttestation(findings []Finding, pack RulepackRef, toolVersion string, now time.Time) Attestation {
	var fails, warns int
	for _, f := range findings {
		if f.Severity == FindingFail {
			fails++
		} else {
			warns++
		}
	}
	return Attestation{
		RulepackID:      pack.Name,
		RulepackVersion: pack.Version,
		FairyVersion:    toolVersion,
		RunAtUTC:        FormatRunAt(now),
		SubmissionReady: fails == 0,
		FailCount:       fails,
		WarnCount:       warns,
	}
}

// StripTimestamps returns a copy of r with every wall-clock field cleared,
// for content-only comparison of two runs.
func (r Report) StripTimestamps() Report {
	out := r
	out.Attestation.RunAtUTC = ""
	out.RunID = ""
	return out
}
