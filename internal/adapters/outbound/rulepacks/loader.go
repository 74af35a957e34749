// Package rulepacks reads rulepack documents from disk and ships the
// built-in GEO-SEQ-BULK pack.
package rulepacks

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/rules"
)

// DefaultName identifies the built-in rulepack in CLI output.
const DefaultName = "GEO-SEQ-BULK@0.1.0"

//go:embed builtin/*.json
var builtin embed.FS

const defaultFile = "builtin/geo_seq_bulk_v0_1_0.json"

// Format selects the document decoder.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Loader loads and compiles rulepacks.
type Loader struct{}

// New returns a Loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the rulepack at path. An empty path returns the built-in pack.
// A directory must hold exactly one .json, .yaml or .yml file.
func (l *Loader) Load(path string) (*rules.Rulepack, error) {
	if path == "" {
		return Default()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: rulepack %s: %v", domain.ErrConfiguration, path, err)
	}
	if info.IsDir() {
		if path, err = singleDocument(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading rulepack %s: %v", domain.ErrConfiguration, path, err)
	}
	pack, err := Parse(data, formatFor(path))
	if err != nil {
		return nil, fmt.Errorf("loading rulepack %s: %w", path, err)
	}
	return pack, nil
}

// Default returns the built-in GEO-SEQ-BULK rulepack.
func Default() (*rules.Rulepack, error) {
	data, err := builtin.ReadFile(defaultFile)
	if err != nil {
		return nil, fmt.Errorf("reading built-in rulepack: %w", err)
	}
	return Parse(data, FormatJSON)
}

// DefaultDocument returns the raw JSON of the built-in rulepack.
func DefaultDocument() ([]byte, error) {
	return builtin.ReadFile(defaultFile)
}

// Parse decodes and compiles a rulepack document.
func Parse(data []byte, format Format) (*rules.Rulepack, error) {
	var doc rules.Document
	switch format {
	case FormatYAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML rulepack: %v", domain.ErrConfiguration, err)
		}
		// Round-trip through JSON so YAML and JSON documents share one decoder.
		normalized, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: normalizing YAML rulepack: %v", domain.ErrConfiguration, err)
		}
		data = normalized
		fallthrough
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: parsing rulepack: %v", domain.ErrConfiguration, err)
		}
	}
	return rules.Compile(doc)
}

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func singleDocument(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: reading rulepack directory %s: %v", domain.ErrConfiguration, dir, err)
	}
	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			candidates = append(candidates, e.Name())
		}
	}
	switch len(candidates) {
	case 1:
		return filepath.Join(dir, candidates[0]), nil
	case 0:
		return "", fmt.Errorf("%w: no rulepack document in %s", domain.ErrConfiguration, dir)
	default:
		return "", fmt.Errorf("%w: several rulepack documents in %s: %s", domain.ErrConfiguration, dir, strings.Join(candidates, ", "))
	}
}
