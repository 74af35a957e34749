package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fairyhq/fairy/internal/adapters/outbound/table"
	"github.com/fairyhq/fairy/internal/domain"
)

var skipDirs = map[string]bool{
	".git":         true,
	".fairy":       true,
	"node_modules": true,
	"reports":      true,
	"venv":         true,
	".venv":        true,
}

// ScanResult lists the table files found under a project.
type ScanResult struct {
	RootPath string
	// Tables are project-relative, slash-separated and sorted.
	Tables []string
	// SamplesTable and FilesTable are best guesses by file name; empty when
	// nothing matched.
	SamplesTable string
	FilesTable   string
}

// FileScanner walks a project directory for table files.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan walks projectPath, skipping VCS, virtualenv and report directories.
func (s *FileScanner) Scan(projectPath string, excludePaths ...string) (*ScanResult, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}

	extraSkip := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		extraSkip[strings.TrimSuffix(p, "/")] = true
	}

	result := &ScanResult{RootPath: absPath}

	err = filepath.WalkDir(absPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != absPath && (skipDirs[d.Name()] || extraSkip[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !table.IsTableFile(d.Name()) {
			return nil
		}
		relPath, _ := filepath.Rel(absPath, path)
		result.Tables = append(result.Tables, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(result.Tables)
	result.SamplesTable = guess(result.Tables, "sample")
	result.FilesTable = guess(result.Tables, "file", "manifest", "run")
	return result, nil
}

// guess returns the shallowest table whose base name contains one of the
// hints, preferring earlier hints.
func guess(tables []string, hints ...string) string {
	for _, h := range hints {
		best := ""
		for _, t := range tables {
			if !strings.Contains(strings.ToLower(filepath.Base(t)), h) {
				continue
			}
			if best == "" || strings.Count(t, "/") < strings.Count(best, "/") {
				best = t
			}
		}
		if best != "" {
			return best
		}
	}
	return ""
}

// ResolveInput accepts either a table file or a directory holding exactly
// one table file at its top level.
func ResolveInput(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not a file or directory", domain.ErrInvalidInput, path)
	}
	if !info.IsDir() {
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidInput, path, err)
	}
	var candidates []string
	for _, e := range entries {
		if !e.IsDir() && table.IsTableFile(e.Name()) {
			candidates = append(candidates, e.Name())
		}
	}
	switch len(candidates) {
	case 1:
		return filepath.Join(path, candidates[0]), nil
	case 0:
		return "", fmt.Errorf("%w: no table file found in directory %s; expected something like metadata.csv", domain.ErrInvalidInput, path)
	default:
		return "", fmt.Errorf("%w: multiple table files found in %s: %s; please specify which file you want",
			domain.ErrInvalidInput, path, strings.Join(candidates, ", "))
	}
}
