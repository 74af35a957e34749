package check

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"

	"github.com/fairyhq/fairy/internal/domain"
)

// DuplicateValues warns on every row whose value in column repeats
// elsewhere, compared case-insensitively. Blank cells are left to NotNull.
func DuplicateValues(t *domain.Table, column string) []domain.Issue {
	values, ok := t.Column(column)
	if !ok {
		return nil
	}
	counts := make(map[string]int, len(values))
	for _, v := range values {
		if k := normalizeValue(v); k != "" {
			counts[k]++
		}
	}

	var issues []domain.Issue
	for r, v := range values {
		if counts[normalizeValue(v)] < 2 {
			continue
		}
		issues = append(issues, newIssue(
			KindDuplicateValue, domain.SeverityWarning,
			fmt.Sprintf("Duplicate %s value '%s'.", column, strings.TrimSpace(v)),
			r, column, "Ensure IDs are unique.",
		))
	}
	return issues
}

// ColumnNameMismatch warns once per group of headers that normalise to the
// same snake_case key, e.g. "SampleID", "sample_id" and "Sample ID".
func ColumnNameMismatch(t *domain.Table) []domain.Issue {
	var order []string
	groups := make(map[string][]string)
	for _, c := range t.Columns {
		key := NormalizeColumnName(c)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	var issues []domain.Issue
	for _, key := range order {
		cols := groups[key]
		if len(cols) < 2 {
			continue
		}
		issues = append(issues, newIssue(
			KindColumnNameMismatch, domain.SeverityWarning,
			fmt.Sprintf("Columns [%s] appear to represent the same field (normalized '%s').", strings.Join(cols, ", "), key),
			-1, "", fmt.Sprintf("Keep one canonical name (e.g., '%s') and remove/merge the others.", key),
		))
	}
	return issues
}

// NormalizeColumnName lowercases a header and joins its CamelCase and
// punctuation-separated words with underscores.
func NormalizeColumnName(name string) string {
	var words []string
	for _, w := range camelcase.Split(strings.TrimSpace(name)) {
		w = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, w)
		if w != "" {
			words = append(words, w)
		}
	}
	return strings.Join(words, "_")
}

func normalizeValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
