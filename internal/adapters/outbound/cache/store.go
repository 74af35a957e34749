package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fairyhq/fairy/internal/domain"
)

// Store is a file-based implementation of domain.BaselineStore.
type Store struct{}

// New creates a new file-based baseline store.
func New() *Store {
	return &Store{}
}

// Load reads the baseline report from disk. Returns (nil, nil) if no
// baseline exists.
func (s *Store) Load(projectPath string) (*domain.Report, error) {
	data, err := os.ReadFile(Path(projectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // no baseline is not an error
		}
		return nil, fmt.Errorf("reading baseline: %w", err)
	}

	var rep domain.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parsing baseline: %w", err)
	}
	return &rep, nil
}

// Save replaces the baseline, creating directories as needed.
func (s *Store) Save(projectPath string, rep domain.Report) error {
	path := Path(projectPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding baseline: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing baseline: %w", err)
	}
	return os.Rename(tmp, path)
}

// Invalidate removes the baseline for the given project path.
func (s *Store) Invalidate(projectPath string) error {
	if err := os.Remove(Path(projectPath)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns where the baseline for projectPath lives.
func Path(projectPath string) string {
	return filepath.Join(projectPath, ".fairy", "cache", "baseline.json")
}
