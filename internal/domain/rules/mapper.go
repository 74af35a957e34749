package rules

import (
	"fmt"

	"github.com/fairyhq/fairy/internal/domain"
)

// MapSeverity turns an issue severity into a finding severity. Only errors
// block submission.
func MapSeverity(severity string) string {
	if severity == domain.SeverityError {
		return domain.FindingFail
	}
	return domain.FindingWarn
}

// Where locates an issue, preferring its row and column over the rule's
// static location. Negative rows are not rendered.
func Where(is domain.Issue, fallback string) string {
	hasRow := is.Row != nil && *is.Row >= 0
	hasCol := is.Column != nil
	switch {
	case hasRow && hasCol:
		return fmt.Sprintf("row %d, column '%s'", *is.Row, *is.Column)
	case hasRow:
		return fmt.Sprintf("row %d", *is.Row)
	case hasCol:
		return fmt.Sprintf("column '%s'", *is.Column)
	default:
		return fallback
	}
}

// MapIssue attributes an issue to the rule that produced it.
func MapIssue(rule Rule, is domain.Issue) domain.Finding {
	where := Where(is, rule.Where)
	if _, ok := rule.Check.(headerLevel); ok {
		where = rule.Where
	}
	return domain.Finding{
		Code:     rule.Code,
		Severity: MapSeverity(is.Severity),
		Where:    where,
		Why:      rule.Why,
		HowToFix: rule.HowToFix,
		Details: domain.FindingDetails{
			Kind:    is.Kind,
			Message: is.Message,
			Hint:    is.Hint,
			Row:     is.Row,
			Column:  is.Column,
		},
	}
}
