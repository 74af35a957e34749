// Package report writes reports to disk. Output is canonical JSON (RFC 8785
// key order) indented by two spaces, ending in a newline, and written
// through a temporary file so readers never observe a partial report.
package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gowebpki/jcs"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fairyhq/fairy/internal/domain"
)

// FileName is the legacy report's fixed name inside the output directory.
const FileName = "report_v0.json"

const schemaURL = "https://fairy.local/schemas/report_v0.schema.json"

//go:embed schema/report_v0.schema.json
var schemaV0 string

// Writer validates and persists reports.
type Writer struct {
	schema *jsonschema.Schema
}

// New compiles the embedded ReportV0 schema.
func New() (*Writer, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaV0)); err != nil {
		return nil, fmt.Errorf("report schema load failed: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("report schema compile failed: %w", err)
	}
	return &Writer{schema: compiled}, nil
}

// SchemaJSON returns the embedded ReportV0 schema document.
func SchemaJSON() string { return schemaV0 }

// Encode renders v canonically: sorted keys, two-space indent, no HTML or
// non-ASCII escaping, trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}
	canonical, err := jcs.Transform(bytes.TrimSpace(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("canonicalizing report: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, canonical, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting report: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Validate checks rep against the ReportV0 schema.
func (w *Writer) Validate(rep domain.ReportV0) error {
	data, err := Encode(rep)
	if err != nil {
		return err
	}
	return w.validateBytes(data)
}

func (w *Writer) validateBytes(data []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decoding report for validation: %w", err)
	}
	if err := w.schema.Validate(doc); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}

// WriteReport validates rep and writes it to <outDir>/report_v0.json,
// creating outDir. Nothing is written when validation fails.
func (w *Writer) WriteReport(outDir string, rep domain.ReportV0) (string, error) {
	data, err := Encode(rep)
	if err != nil {
		return "", err
	}
	if err := w.validateBytes(data); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, FileName)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteJSON writes any value canonically to path, creating parent
// directories.
func WriteJSON(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
