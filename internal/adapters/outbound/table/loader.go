// Package table loads delimited text and JSON record files into domain
// tables. Every cell is kept as a string; blanks and nulls become "".
package table

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fairyhq/fairy/internal/domain"
)

// Extensions recognised as tables.
var Extensions = []string{".csv", ".tsv", ".txt", ".json"}

var sniffOrder = []rune{'\t', ',', ';', '|'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads table files from disk.
type Loader struct{}

// New returns a Loader.
func New() *Loader {
	return &Loader{}
}

// IsTableFile reports whether name has a recognised table extension.
func IsTableFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads the table at path and records its size and SHA-256.
func (l *Loader) Load(path string) (*domain.LoadedTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidInput, path, err)
	}
	t, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return &domain.LoadedTable{
		Path:   path,
		Table:  t,
		SHA256: hex.EncodeToString(sum[:]),
		Bytes:  int64(len(data)),
	}, nil
}

// Parse decodes table bytes. ext picks the format (".json" for record
// arrays, ".csv" for commas, ".tsv" for tabs); anything else is sniffed.
func Parse(data []byte, ext string) (*domain.Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: table is not valid UTF-8", domain.ErrInvalidInput)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: table is empty", domain.ErrInvalidInput)
	}

	switch strings.ToLower(ext) {
	case ".json":
		return parseRecords(data)
	case ".csv":
		return parseDelimited(data, ',')
	case ".tsv":
		return parseDelimited(data, '\t')
	default:
		return parseDelimited(data, Sniff(data))
	}
}

// Sniff guesses the delimiter from the header line. Tab wins ties and is
// the default when no candidate appears.
func Sniff(data []byte) rune {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	best, bestCount := '\t', 0
	for _, d := range sniffOrder {
		if n := bytes.Count(header, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func parseDelimited(data []byte, delim rune) (*domain.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrInvalidInput, err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		rows = append(rows, rec)
	}
	return domain.NewTable(header, rows)
}

// parseRecords reads a JSON array of flat objects. Columns appear in the
// order keys are first seen across all records.
func parseRecords(data []byte) (*domain.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var columns []string
	index := map[string]int{}
	var records []map[string]string
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		rec := map[string]string{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			key, _ := tok.(string)
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", domain.ErrInvalidInput, key, err)
			}
			cell, err := cellString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", domain.ErrInvalidInput, key, err)
			}
			if _, dup := rec[key]; dup {
				return nil, fmt.Errorf("%w: duplicate key %q in record %d", domain.ErrInvalidInput, key, len(records))
			}
			rec[key] = cell
			if _, ok := index[key]; !ok {
				index[key] = len(columns)
				columns = append(columns, key)
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(columns))
		for k, v := range rec {
			row[index[k]] = v
		}
		rows[i] = row
	}
	if columns == nil {
		columns = []string{}
	}
	return domain.NewTable(columns, rows)
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q in JSON records, got %v", domain.ErrInvalidInput, want, tok)
	}
	return nil
}

func cellString(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		if x {
			return "true", nil
		}
		return "false", nil
	default:
		return "", fmt.Errorf("nested values are not supported")
	}
}
