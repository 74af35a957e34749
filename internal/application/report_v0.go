package application

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fairyhq/fairy/internal/domain"
)

// ReportV0Input is everything a ReportV0 is computed from.
type ReportV0Input struct {
	// InputPath is the validated file. When empty, the file is looked up by
	// Filename in the working directory.
	InputPath  string
	Filename   string
	SHA256     string
	Meta       domain.Meta
	Rulepacks  []domain.RulepackRef
	Provenance domain.Provenance
	Now        time.Time
}

// BuildReportV0 assembles a ReportV0 with every collection sorted and
// non-nil. The project directory is the input file's parent.
func BuildReportV0(in ReportV0Input) domain.ReportV0 {
	projectDir, dataFile := locate(in.InputPath, in.Filename)

	files := []domain.InputFile{}
	if info, err := os.Stat(dataFile); err == nil && !info.IsDir() {
		files = append(files, domain.InputFile{Path: posixRel(dataFile, projectDir), Bytes: info.Size()})
	}

	warnings := append([]domain.WarningItem{}, in.Meta.Warnings...)
	domain.SortWarnings(warnings)
	rulepacks := append([]domain.RulepackRef{}, in.Rulepacks...)
	domain.SortRulepacks(rulepacks)
	fields := append([]string{}, in.Meta.FieldsValidated...)
	sort.Strings(fields)

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	return domain.ReportV0{
		Version:   domain.ReportV0Version,
		RunAt:     domain.FormatRunAt(now),
		DatasetID: domain.DatasetID{Filename: in.Filename, SHA256: in.SHA256},
		Summary: domain.Summary{
			NRows:           in.Meta.NRows,
			NCols:           in.Meta.NCols,
			FieldsValidated: fields,
		},
		Warnings:   warnings,
		Rulepacks:  rulepacks,
		Provenance: in.Provenance,
		Inputs:     domain.Inputs{ProjectDir: projectDir, Files: files},
		Checks:     []map[string]any{},
		Scores:     map[string]float64{"preflight": 0.0},
	}
}

func locate(inputPath, filename string) (projectDir, dataFile string) {
	if inputPath != "" {
		abs := absolute(inputPath)
		return filepath.Dir(abs), abs
	}
	cwd := absolute(".")
	return cwd, filepath.Join(cwd, filename)
}

func absolute(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// posixRel renders child relative to root with forward slashes, or as an
// absolute path when child lies outside root.
func posixRel(child, root string) string {
	rel, err := filepath.Rel(root, child)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(child)
	}
	return filepath.ToSlash(rel)
}
