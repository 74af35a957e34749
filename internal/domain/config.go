package domain

import "fmt"

// Defaults applied when neither flags nor .fairy.yaml say otherwise.
const (
	DefaultKind         = "rna"
	DefaultOutDir       = "project_dir/reports"
	DefaultSamplesTable = "samples.tsv"
	DefaultFilesTable   = "files.tsv"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

var validLogLevels = []string{"", "debug", "info", "warn", "warning", "error"}

var validLogFormats = []string{"", "text", "json"}

// ProjectConfig holds project-level configuration loaded from .fairy.yaml.
type ProjectConfig struct {
	Kind           string       `yaml:"kind"              json:"kind,omitempty"`
	Rulepack       string       `yaml:"rulepack"          json:"rulepack,omitempty"`
	OutDir         string       `yaml:"out_dir"           json:"out_dir,omitempty"`
	FailOnNotReady bool         `yaml:"fail_on_not_ready" json:"fail_on_not_ready,omitempty"`
	Provenance     Provenance   `yaml:"provenance"        json:"provenance"`
	Log            LogConfig    `yaml:"log"               json:"log"`
	Tables         TablesConfig `yaml:"tables"            json:"tables"`
}

// LogConfig selects the slog level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"  json:"level,omitempty"`
	Format string `yaml:"format" json:"format,omitempty"`
}

// TablesConfig names the samples and files tables of a preflight run,
// relative to the project directory.
type TablesConfig struct {
	Samples string `yaml:"samples" json:"samples,omitempty"`
	Files   string `yaml:"files"   json:"files,omitempty"`
}

// DefaultConfig returns a zero-value config; accessors supply defaults.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{}
}

// EffectiveKind returns the configured validator kind or DefaultKind.
func (c ProjectConfig) EffectiveKind() string {
	if c.Kind != "" {
		return c.Kind
	}
	return DefaultKind
}

// EffectiveOutDir returns the configured legacy output directory or DefaultOutDir.
func (c ProjectConfig) EffectiveOutDir() string {
	if c.OutDir != "" {
		return c.OutDir
	}
	return DefaultOutDir
}

// EffectiveTables fills unset table names with the defaults.
func (c ProjectConfig) EffectiveTables() TablesConfig {
	t := c.Tables
	if t.Samples == "" {
		t.Samples = DefaultSamplesTable
	}
	if t.Files == "" {
		t.Files = DefaultFilesTable
	}
	return t
}

// EffectiveLog fills unset log settings with the defaults.
func (c ProjectConfig) EffectiveLog() LogConfig {
	l := c.Log
	if l.Level == "" {
		l.Level = DefaultLogLevel
	}
	if l.Format == "" {
		l.Format = DefaultLogFormat
	}
	return l
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if !contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("unknown log.level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	if !contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("unknown log.format %q (valid: text, json)", c.Log.Format)
	}
	if c.Tables.Samples != "" && c.Tables.Samples == c.Tables.Files {
		return fmt.Errorf("tables.samples and tables.files must differ (both %q)", c.Tables.Samples)
	}
	if c.Provenance.SourceURL != nil && *c.Provenance.SourceURL == "" {
		return fmt.Errorf("provenance.source_url must not be empty when set")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
