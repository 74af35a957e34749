package validator

import "github.com/fairyhq/fairy/internal/domain"

// genericFieldLimit is how many leading columns the generic validator lists.
const genericFieldLimit = 50

// Generic summarizes any table's shape without domain rules.
type Generic struct{}

func (Generic) Name() string    { return GenericKind }
func (Generic) Version() string { return "0.1.0" }

func (Generic) Validate(t *domain.Table) domain.Meta {
	n := len(t.Columns)
	if n > genericFieldLimit {
		n = genericFieldLimit
	}
	fields := make([]string, n)
	copy(fields, t.Columns[:n])
	return domain.Meta{
		NRows:           t.NumRows(),
		NCols:           t.NumCols(),
		FieldsValidated: fields,
		Warnings:        []domain.WarningItem{},
	}
}
