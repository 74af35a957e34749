package check

import (
	"fmt"

	"github.com/fairyhq/fairy/internal/domain"
)

// newIssue builds an Issue; negative rows and empty columns or hints are
// left unset.
func newIssue(kind, severity, message string, row int, column, hint string) domain.Issue {
	is := domain.Issue{Kind: kind, Severity: severity, Message: message}
	if row >= 0 {
		r := row
		is.Row = &r
	}
	if column != "" {
		c := column
		is.Column = &c
	}
	if hint != "" {
		h := hint
		is.Hint = &h
	}
	return is
}

// rowLabel names a row by its sample identifier when one is present.
func rowLabel(t *domain.Table, row int, idColumn string) string {
	if id := t.Trimmed(row, idColumn); id != "" {
		return id
	}
	return fmt.Sprintf("row_%d", row)
}

// group is a set of row indices sharing a key, in first-seen order.
type group struct {
	key  string
	rows []int
}

// groupBy partitions rows by the trimmed value of column, keeping
// first-seen key order so output is deterministic.
func groupBy(t *domain.Table, column string, keep func(row int) bool) []group {
	var groups []group
	pos := make(map[string]int)
	for r := 0; r < t.NumRows(); r++ {
		if keep != nil && !keep(r) {
			continue
		}
		k := t.Trimmed(r, column)
		i, ok := pos[k]
		if !ok {
			i = len(groups)
			pos[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].rows = append(groups[i].rows, r)
	}
	return groups
}
