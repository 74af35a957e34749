// Package check holds the pure table checks evaluated by rulepacks and the
// legacy validators. Each check inspects one table (or a pair) and returns
// issues in row order; none of them mutate their inputs.
package check

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhq/fairy/internal/domain"
)

// Issue kinds.
const (
	KindMissingColumn        = "missing_column"
	KindMissingValue         = "missing_value"
	KindBelowMinimum         = "below_minimum"
	KindMissingBioContext    = "missing_bio_context"
	KindFileMissingSampleID  = "file_missing_sample_id"
	KindFileUnknownSampleID  = "file_unknown_sample_id"
	KindPairedEndIncomplete  = "paired_end_incomplete"
	KindDateNotISO8601       = "date_not_iso8601"
	KindProcessedDataMissing = "processed_data_missing"
	KindDuplicateValue       = "duplicate_value"
	KindColumnNameMismatch   = "column_name_mismatch"
	KindRowRejected          = "row_rejected"
)

// InvalidNumber replaces values that do not parse as numbers.
const InvalidNumber = -1.0

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RequiredColumns reports every name in required that the table lacks.
func RequiredColumns(t *domain.Table, required []string) []domain.Issue {
	var issues []domain.Issue
	seen := make(map[string]bool, len(required))
	for _, col := range required {
		if seen[col] {
			continue
		}
		seen[col] = true
		if t.HasColumn(col) {
			continue
		}
		issues = append(issues, newIssue(
			KindMissingColumn, domain.SeverityError,
			fmt.Sprintf("Required column '%s' is missing.", col),
			-1, col, "Add this column before export.",
		))
	}
	return issues
}

// NotNull reports every row whose value in column is empty or whitespace.
// A missing column yields nothing; RequiredColumns reports it.
func NotNull(t *domain.Table, column string) []domain.Issue {
	if !t.HasColumn(column) {
		return nil
	}
	var issues []domain.Issue
	for r := 0; r < t.NumRows(); r++ {
		if t.Trimmed(r, column) != "" {
			continue
		}
		issues = append(issues, newIssue(
			KindMissingValue, domain.SeverityError,
			fmt.Sprintf("Missing value in required field '%s'.", column),
			r, column, "Fill this cell.",
		))
	}
	return issues
}

// ParseNumber coerces a cell to a number. Values that do not parse, and
// NaN, become InvalidNumber and ok is false.
func ParseNumber(raw string) (v float64, ok bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return InvalidNumber, false
	}
	return v, true
}

// NumericLowerBound warns on every row whose value in column is not a
// number or is below min. Unparseable values are flagged even when min is
// itself below the sentinel.
func NumericLowerBound(t *domain.Table, column string, min float64) []domain.Issue {
	if !t.HasColumn(column) {
		return nil
	}
	var issues []domain.Issue
	for r := 0; r < t.NumRows(); r++ {
		raw := t.Trimmed(r, column)
		v, ok := ParseNumber(raw)
		if ok && v >= min {
			continue
		}
		issues = append(issues, newIssue(
			KindBelowMinimum, domain.SeverityWarning,
			fmt.Sprintf("Value '%s' in '%s' is non-numeric or below %s.", raw, column, formatNumber(min)),
			r, column, fmt.Sprintf("Use a number >= %s.", formatNumber(min)),
		))
	}
	return issues
}

// AtLeastOneNonEmptyPerRow reports rows where every column in the group is
// empty. Columns missing from the table count as empty.
func AtLeastOneNonEmptyPerRow(t *domain.Table, columns []string, idColumn string) []domain.Issue {
	if len(columns) == 0 {
		return nil
	}
	var issues []domain.Issue
	for r := 0; r < t.NumRows(); r++ {
		filled := false
		for _, c := range columns {
			if t.Trimmed(r, c) != "" {
				filled = true
				break
			}
		}
		if filled {
			continue
		}
		issues = append(issues, newIssue(
			KindMissingBioContext, domain.SeverityError,
			fmt.Sprintf("Sample '%s' has no value in any of: %s.", rowLabel(t, r, idColumn), strings.Join(columns, ", ")),
			r, "", fmt.Sprintf("Fill at least one of: %s.", strings.Join(columns, ", ")),
		))
	}
	return issues
}

// IDCrosscheck reports rows of right whose key is blank or absent from the
// non-blank keys of left. When either table lacks the key column it returns
// nothing: a separate require_columns rule is expected to report that.
func IDCrosscheck(left, right *domain.Table, key string) []domain.Issue {
	if !left.HasColumn(key) || !right.HasColumn(key) {
		return nil
	}
	known := make(map[string]struct{}, left.NumRows())
	for r := 0; r < left.NumRows(); r++ {
		if v := left.Trimmed(r, key); v != "" {
			known[v] = struct{}{}
		}
	}

	var issues []domain.Issue
	for r := 0; r < right.NumRows(); r++ {
		v := right.Trimmed(r, key)
		if v == "" {
			issues = append(issues, newIssue(
				KindFileMissingSampleID, domain.SeverityError,
				fmt.Sprintf("File row has no '%s'.", key),
				r, key, "Link every file to a sample.",
			))
			continue
		}
		if _, ok := known[v]; ok {
			continue
		}
		issues = append(issues, newIssue(
			KindFileUnknownSampleID, domain.SeverityError,
			fmt.Sprintf("'%s' in files table is not present in samples table.", v),
			r, key, fmt.Sprintf("Add '%s' to the samples table or fix the typo.", v),
		))
	}
	return issues
}

// PairedEndParams configures PairedEndComplete.
type PairedEndParams struct {
	Key          string
	LayoutColumn string
	PairedValue  string
	FileColumn   string
	R1           *regexp.Regexp
	R2           *regexp.Regexp
}

// PairedEndComplete groups paired-layout rows by key and reports groups
// lacking a filename that matches R1 or R2. Issues point at the group's
// first row.
func PairedEndComplete(files *domain.Table, p PairedEndParams) []domain.Issue {
	for _, c := range []string{p.Key, p.LayoutColumn, p.FileColumn} {
		if !files.HasColumn(c) {
			return nil
		}
	}
	paired := func(r int) bool {
		return strings.EqualFold(files.Trimmed(r, p.LayoutColumn), strings.TrimSpace(p.PairedValue))
	}

	var issues []domain.Issue
	for _, g := range groupBy(files, p.Key, paired) {
		var hasR1, hasR2 bool
		for _, r := range g.rows {
			name := files.Trimmed(r, p.FileColumn)
			hasR1 = hasR1 || p.R1.MatchString(name)
			hasR2 = hasR2 || p.R2.MatchString(name)
		}
		var missing []string
		if !hasR1 {
			missing = append(missing, fmt.Sprintf("R1 (pattern '%s')", p.R1))
		}
		if !hasR2 {
			missing = append(missing, fmt.Sprintf("R2 (pattern '%s')", p.R2))
		}
		if len(missing) == 0 {
			continue
		}
		issues = append(issues, newIssue(
			KindPairedEndIncomplete, domain.SeverityError,
			fmt.Sprintf("Sample '%s' is %s but missing %s.", g.key, p.PairedValue, strings.Join(missing, " and ")),
			g.rows[0], p.FileColumn, "Upload both mates of every paired-end run.",
		))
	}
	return issues
}

// DatesISO8601 warns on non-empty cells in columns that are not YYYY-MM-DD.
func DatesISO8601(t *domain.Table, columns []string) []domain.Issue {
	var issues []domain.Issue
	for _, c := range columns {
		if !t.HasColumn(c) {
			continue
		}
		for r := 0; r < t.NumRows(); r++ {
			v := t.Trimmed(r, c)
			if v == "" || isoDate.MatchString(v) {
				continue
			}
			issues = append(issues, newIssue(
				KindDateNotISO8601, domain.SeverityWarning,
				fmt.Sprintf("Date '%s' in '%s' is not ISO 8601 (YYYY-MM-DD).", v, c),
				r, c, "Reformat as YYYY-MM-DD.",
			))
		}
	}
	return issues
}

// ProcessedDataParams configures ProcessedDataPresent.
type ProcessedDataParams struct {
	Key              string
	FileColumn       string
	RawMarker        string
	ProcessedMarkers []string
}

// ProcessedDataPresent warns for every key group that has raw files but no
// processed file. Markers are plain substrings.
func ProcessedDataPresent(files *domain.Table, p ProcessedDataParams) []domain.Issue {
	if !files.HasColumn(p.Key) || !files.HasColumn(p.FileColumn) {
		return nil
	}

	var issues []domain.Issue
	for _, g := range groupBy(files, p.Key, nil) {
		var hasRaw, hasProcessed bool
		for _, r := range g.rows {
			name := files.Trimmed(r, p.FileColumn)
			if p.RawMarker != "" && strings.Contains(name, p.RawMarker) {
				hasRaw = true
			}
			for _, m := range p.ProcessedMarkers {
				if m != "" && strings.Contains(name, m) {
					hasProcessed = true
				}
			}
		}
		if !hasRaw || hasProcessed {
			continue
		}
		issues = append(issues, newIssue(
			KindProcessedDataMissing, domain.SeverityWarning,
			fmt.Sprintf("Sample '%s' has raw '%s' files but no processed data (%s).", g.key, p.RawMarker, strings.Join(p.ProcessedMarkers, ", ")),
			g.rows[0], p.FileColumn, "Attach a counts or quantification file for this sample.",
		))
	}
	return issues
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
