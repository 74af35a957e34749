package validator

import (
	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/check"
)

var (
	rnaRequired = []string{"sample_id"}
	rnaOptional = []string{"collection_date", "tissue", "read_length"}
)

// RNA validates RNA-seq sample sheets: sample_id must exist and be filled,
// and read_length must be a number of at least 1.
type RNA struct{}

func (RNA) Name() string    { return "rna" }
func (RNA) Version() string { return "0.1.0" }

func (RNA) Validate(t *domain.Table) domain.Meta {
	var warns []domain.WarningItem

	for _, is := range check.RequiredColumns(t, rnaRequired) {
		warns = append(warns, domain.WarningItem{Column: deref(is.Column), Check: "required", Failure: "missing column", Index: -1})
	}
	for _, is := range check.NotNull(t, "sample_id") {
		warns = append(warns, domain.WarningItem{Column: "sample_id", Check: "not_null", Failure: "null value", Index: *is.Row})
	}
	for _, is := range check.NumericLowerBound(t, "read_length", 1) {
		warns = append(warns, domain.WarningItem{Column: "read_length", Check: ">=1", Failure: "non-positive or invalid", Index: *is.Row})
	}

	known := make(map[string]bool, len(rnaRequired)+len(rnaOptional))
	for _, c := range append(append([]string{}, rnaRequired...), rnaOptional...) {
		known[c] = true
	}
	var fields []string
	for _, c := range t.Columns {
		if known[c] {
			fields = append(fields, c)
		}
	}

	return domain.Meta{
		NRows:           t.NumRows(),
		NCols:           t.NumCols(),
		FieldsValidated: domain.SortedUnique(fields),
		Warnings:        capWarnings(warns),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
