package rules

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/check"
)

// Check types recognized in rulepack documents.
const (
	TypeRequireColumns        = "require_columns"
	TypeAtLeastOneNonEmpty    = "at_least_one_nonempty_per_row"
	TypeIDCrosscheck          = "id_crosscheck"
	TypePairedEndComplete     = "paired_end_complete"
	TypeDatesISO8601          = "dates_are_iso8601"
	TypeProcessedDataPresent  = "processed_data_present"
	TypeNotNull               = "not_null"
	TypeNumericMin            = "numeric_min"
	TypeUniqueValues          = "unique_values"
	TypeColumnNamesConsistent = "column_names_consistent"
)

// Table roles a single-table check may target.
const (
	TableSamples = "samples"
	TableFiles   = "files"
)

// Inputs are the tables a rulepack runs over.
type Inputs struct {
	Samples *domain.Table
	Files   *domain.Table
}

func (in Inputs) table(role string) *domain.Table {
	if role == TableFiles {
		return in.Files
	}
	return in.Samples
}

// Check is one typed rule check. Implementations are immutable once parsed.
type Check interface {
	Type() string
	Evaluate(in Inputs) []domain.Issue
}

// headerLevel is implemented by checks whose issues concern a table's
// header rather than a cell. Their findings keep the column in details but
// are located by the rule's own where text.
type headerLevel interface {
	headerLevel()
}

// RequireColumns reports required columns missing from a table.
type RequireColumns struct {
	Columns []string `json:"required_columns"`
	Table   string   `json:"table"`
}

func (RequireColumns) Type() string { return TypeRequireColumns }

func (RequireColumns) headerLevel() {}

func (c RequireColumns) Evaluate(in Inputs) []domain.Issue {
	return check.RequiredColumns(in.table(c.Table), c.Columns)
}

// AtLeastOneNonEmpty reports rows with every column of the first group empty.
type AtLeastOneNonEmpty struct {
	ColumnGroups [][]string `json:"column_groups"`
	IDColumn     string     `json:"id_column"`
}

func (AtLeastOneNonEmpty) Type() string { return TypeAtLeastOneNonEmpty }

func (c AtLeastOneNonEmpty) Evaluate(in Inputs) []domain.Issue {
	if len(c.ColumnGroups) == 0 {
		return nil
	}
	return check.AtLeastOneNonEmptyPerRow(in.Samples, c.ColumnGroups[0], c.IDColumn)
}

// IDCrosscheck reports files whose sample key is blank or unknown.
type IDCrosscheck struct {
	LeftKey string `json:"left_key"`
}

func (IDCrosscheck) Type() string { return TypeIDCrosscheck }

func (c IDCrosscheck) Evaluate(in Inputs) []domain.Issue {
	return check.IDCrosscheck(in.Samples, in.Files, c.LeftKey)
}

// PairedEndComplete reports paired-layout samples missing an R1 or R2 file.
type PairedEndComplete struct {
	SamplesKey           string `json:"samples_key"`
	LayoutColumn         string `json:"layout_column"`
	LayoutValueForPaired string `json:"layout_value_for_paired"`
	FileColumn           string `json:"file_column"`
	R1Pattern            string `json:"r1_pattern"`
	R2Pattern            string `json:"r2_pattern"`

	r1, r2 *regexp.Regexp
}

func (PairedEndComplete) Type() string { return TypePairedEndComplete }

func (c PairedEndComplete) Evaluate(in Inputs) []domain.Issue {
	return check.PairedEndComplete(in.Files, check.PairedEndParams{
		Key:          c.SamplesKey,
		LayoutColumn: c.LayoutColumn,
		PairedValue:  c.LayoutValueForPaired,
		FileColumn:   c.FileColumn,
		R1:           c.r1,
		R2:           c.r2,
	})
}

// DatesISO8601 warns on date cells not in YYYY-MM-DD form.
type DatesISO8601 struct {
	Columns []string `json:"columns"`
}

func (DatesISO8601) Type() string { return TypeDatesISO8601 }

func (c DatesISO8601) Evaluate(in Inputs) []domain.Issue {
	return check.DatesISO8601(in.Samples, c.Columns)
}

// ProcessedDataPresent warns on samples with raw files but no processed data.
type ProcessedDataPresent struct {
	SamplesKey              string   `json:"samples_key"`
	FileColumn              string   `json:"file_column"`
	RawFileGlob             string   `json:"raw_file_glob"`
	ProcessedGlobCandidates []string `json:"processed_glob_candidates"`
}

func (ProcessedDataPresent) Type() string { return TypeProcessedDataPresent }

func (c ProcessedDataPresent) Evaluate(in Inputs) []domain.Issue {
	return check.ProcessedDataPresent(in.Files, check.ProcessedDataParams{
		Key:              c.SamplesKey,
		FileColumn:       c.FileColumn,
		RawMarker:        c.RawFileGlob,
		ProcessedMarkers: c.ProcessedGlobCandidates,
	})
}

// NotNull reports blank cells in a column.
type NotNull struct {
	Column string `json:"column"`
	Table  string `json:"table"`
}

func (NotNull) Type() string { return TypeNotNull }

func (c NotNull) Evaluate(in Inputs) []domain.Issue {
	return check.NotNull(in.table(c.Table), c.Column)
}

// NumericMin warns on values that are not numbers or fall below Min.
type NumericMin struct {
	Column string  `json:"column"`
	Min    float64 `json:"min"`
	Table  string  `json:"table"`
}

func (NumericMin) Type() string { return TypeNumericMin }

func (c NumericMin) Evaluate(in Inputs) []domain.Issue {
	return check.NumericLowerBound(in.table(c.Table), c.Column, c.Min)
}

// UniqueValues warns on repeated values in a column.
type UniqueValues struct {
	Column string `json:"column"`
	Table  string `json:"table"`
}

func (UniqueValues) Type() string { return TypeUniqueValues }

func (c UniqueValues) Evaluate(in Inputs) []domain.Issue {
	return check.DuplicateValues(in.table(c.Table), c.Column)
}

// ColumnNamesConsistent warns on headers that differ only by case or
// punctuation.
type ColumnNamesConsistent struct {
	Table string `json:"table"`
}

func (ColumnNamesConsistent) Type() string { return TypeColumnNamesConsistent }

func (c ColumnNamesConsistent) Evaluate(in Inputs) []domain.Issue {
	return check.ColumnNameMismatch(in.table(c.Table))
}

// UnknownCheck stands in for check types this build does not recognize.
// It never produces issues, so newer rulepacks still run on older builds.
type UnknownCheck struct {
	Name   string         `json:"-"`
	Params map[string]any `json:"-"`
}

func (c UnknownCheck) Type() string { return c.Name }

func (UnknownCheck) Evaluate(Inputs) []domain.Issue { return nil }

// ParseCheck decodes a rule's check object into its typed form, filling
// documented defaults for absent parameters.
func ParseCheck(raw map[string]any) (Check, error) {
	typ, _ := raw["type"].(string)
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil, fmt.Errorf("check.type is required")
	}

	switch typ {
	case TypeRequireColumns:
		c := RequireColumns{Table: TableSamples}
		if _, ok := raw["required_columns"]; !ok {
			return nil, fmt.Errorf("%s requires required_columns", typ)
		}
		if err := decodeParams(raw, &c); err != nil {
			return nil, err
		}
		return c, validTable(c.Table)

	case TypeAtLeastOneNonEmpty:
		c := AtLeastOneNonEmpty{IDColumn: "sample_id"}
		return c, decodeParams(raw, &c)

	case TypeIDCrosscheck:
		c := IDCrosscheck{LeftKey: "sample_id"}
		return c, decodeParams(raw, &c)

	case TypePairedEndComplete:
		c := PairedEndComplete{
			SamplesKey:           "sample_id",
			LayoutColumn:         "layout",
			LayoutValueForPaired: "PAIRED",
			FileColumn:           "filename",
			R1Pattern:            "_R1",
			R2Pattern:            "_R2",
		}
		if err := decodeParams(raw, &c); err != nil {
			return nil, err
		}
		var err error
		if c.r1, err = regexp.Compile(c.R1Pattern); err != nil {
			return nil, fmt.Errorf("r1_pattern: %w", err)
		}
		if c.r2, err = regexp.Compile(c.R2Pattern); err != nil {
			return nil, fmt.Errorf("r2_pattern: %w", err)
		}
		return c, nil

	case TypeDatesISO8601:
		c := DatesISO8601{}
		return c, decodeParams(raw, &c)

	case TypeProcessedDataPresent:
		c := ProcessedDataPresent{
			SamplesKey:              "sample_id",
			FileColumn:              "filename",
			RawFileGlob:             ".fastq",
			ProcessedGlobCandidates: []string{".counts", ".quant", ".gene_counts"},
		}
		return c, decodeParams(raw, &c)

	case TypeNotNull:
		c := NotNull{Column: "sample_id", Table: TableSamples}
		if err := decodeParams(raw, &c); err != nil {
			return nil, err
		}
		return c, validTable(c.Table)

	case TypeNumericMin:
		c := NumericMin{Column: "read_length", Min: 1, Table: TableSamples}
		if err := decodeParams(raw, &c); err != nil {
			return nil, err
		}
		return c, validTable(c.Table)

	case TypeUniqueValues:
		c := UniqueValues{Column: "sample_id", Table: TableSamples}
		if err := decodeParams(raw, &c); err != nil {
			return nil, err
		}
		return c, validTable(c.Table)

	case TypeColumnNamesConsistent:
		c := ColumnNamesConsistent{Table: TableSamples}
		if err := decodeParams(raw, &c); err != nil {
			return nil, err
		}
		return c, validTable(c.Table)

	case TypeRowExpression:
		return parseRowExpression(raw)

	default:
		params := make(map[string]any, len(raw))
		for k, v := range raw {
			if k != "type" {
				params[k] = v
			}
		}
		return UnknownCheck{Name: typ, Params: params}, nil
	}
}

// Describe renders a check back into its document form.
func Describe(c Check) (map[string]any, error) {
	if c == nil {
		return nil, nil
	}
	out := map[string]any{}
	if u, ok := c.(UnknownCheck); ok {
		for k, v := range u.Params {
			out[k] = v
		}
	} else {
		data, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("encoding %s check: %w", c.Type(), err)
		}
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decoding %s check: %w", c.Type(), err)
		}
	}
	out["type"] = c.Type()
	return out, nil
}

// decodeParams overlays the raw parameters onto dst, which already holds
// the defaults.
func decodeParams(raw map[string]any, dst any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding check parameters: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding check parameters: %w", err)
	}
	return nil
}

func validTable(role string) error {
	if role != TableSamples && role != TableFiles {
		return fmt.Errorf("table must be %q or %q (got %q)", TableSamples, TableFiles, role)
	}
	return nil
}
