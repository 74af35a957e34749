package domain

import "sort"

// ReportV0Version is the document version written into every ReportV0.
const ReportV0Version = "0.1.0"

// MaxWarnings bounds the warnings a legacy validator may return.
const MaxWarnings = 200

// ReportV0 is the durable, schema-bound report written by the legacy
// single-table path.
type ReportV0 struct {
	Version    string             `json:"version"`
	RunAt      string             `json:"run_at"`
	DatasetID  DatasetID          `json:"dataset_id"`
	Summary    Summary            `json:"summary"`
	Warnings   []WarningItem      `json:"warnings"`
	Rulepacks  []RulepackRef      `json:"rulepacks"`
	Provenance Provenance         `json:"provenance"`
	Inputs     Inputs             `json:"inputs"`
	Checks     []map[string]any   `json:"checks"`
	Scores     map[string]float64 `json:"scores"`
}

// DatasetID identifies the validated file by name and content hash.
type DatasetID struct {
	Filename string `json:"filename"`
	SHA256   string `json:"sha256"`
}

// Summary describes the table's shape.
type Summary struct {
	NRows           int      `json:"n_rows"`
	NCols           int      `json:"n_cols"`
	FieldsValidated []string `json:"fields_validated"`
}

// WarningItem is one legacy-validator warning as persisted in ReportV0.
type WarningItem struct {
	Column  string `json:"column"`
	Check   string `json:"check"`
	Failure string `json:"failure"`
	Index   int    `json:"index"`
}

// RulepackRef names a versioned rulepack.
type RulepackRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Provenance is caller-supplied licensing and source metadata.
type Provenance struct {
	License   *string `json:"license"   yaml:"license,omitempty"`
	SourceURL *string `json:"source_url" yaml:"source_url,omitempty"`
	Notes     *string `json:"notes"     yaml:"notes,omitempty"`
}

// Inputs lists the files a report was computed from.
type Inputs struct {
	ProjectDir string      `json:"project_dir"`
	Files      []InputFile `json:"files"`
}

// InputFile is a project-relative path and its size.
type InputFile struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// Meta is what a legacy validator reports about one table.
type Meta struct {
	NRows           int           `json:"n_rows"`
	NCols           int           `json:"n_cols"`
	FieldsValidated []string      `json:"fields_validated"`
	Warnings        []WarningItem `json:"warnings"`
}

// SortWarnings orders warnings by (column, index, check).
func SortWarnings(items []WarningItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Check < b.Check
	})
}

// SortRulepacks orders rulepacks by (name, version).
func SortRulepacks(refs []RulepackRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].Version < refs[j].Version
	})
}

// SortedUnique returns the sorted set of values.
func SortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
