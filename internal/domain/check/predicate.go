package check

import (
	"fmt"

	"github.com/fairyhq/fairy/internal/domain"
)

// RowPredicate reports every row that accept rejects or fails to evaluate.
// accept sees the row as a column-to-trimmed-value map.
func RowPredicate(t *domain.Table, accept func(row map[string]string) (bool, error), severity, message string) []domain.Issue {
	if message == "" {
		message = "Row does not satisfy the rule expression."
	}
	var issues []domain.Issue
	for r := 0; r < t.NumRows(); r++ {
		row := make(map[string]string, t.NumCols())
		for _, c := range t.Columns {
			row[c] = t.Trimmed(r, c)
		}
		ok, err := accept(row)
		switch {
		case err != nil:
			issues = append(issues, newIssue(
				KindRowRejected, severity,
				fmt.Sprintf("Could not evaluate rule expression: %v.", err),
				r, "", "Check that the columns the expression uses exist and hold the expected values.",
			))
		case !ok:
			issues = append(issues, newIssue(KindRowRejected, severity, message, r, "", ""))
		}
	}
	return issues
}
