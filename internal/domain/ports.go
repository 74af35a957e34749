package domain

// TableLoader reads a delimited or structured file into a Table.
type TableLoader interface {
	Load(path string) (*LoadedTable, error)
}

// LoadedTable is a Table together with the bytes it was parsed from.
type LoadedTable struct {
	Path   string
	Table  *Table
	SHA256 string
	Bytes  int64
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// RunHistory records and lists past preflight runs.
type RunHistory interface {
	Save(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}

// BaselineStore keeps the last preflight report of a project so the next
// run can be compared against it.
type BaselineStore interface {
	Load(projectPath string) (*Report, error)
	Save(projectPath string, rep Report) error
	Invalidate(projectPath string) error
}

// GitInfo provides version control metadata for a project.
type GitInfo interface {
	CommitHash(projectPath string) (string, error)
}

// RunEntry is one recorded preflight run.
type RunEntry struct {
	RunID           string `json:"run_id"`
	RunAtUTC        string `json:"run_at_utc"`
	RulepackID      string `json:"rulepack_id"`
	RulepackVersion string `json:"rulepack_version"`
	CommitHash      string `json:"commit_hash,omitempty"`
	SubmissionReady bool   `json:"submission_ready"`
	FailCount       int    `json:"fail_count"`
	WarnCount       int    `json:"warn_count"`
	SamplesSHA256   string `json:"samples_sha256,omitempty"`
	FilesSHA256     string `json:"files_sha256,omitempty"`
}
