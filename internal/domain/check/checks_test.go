package check_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(t *testing.T, columns []string, rows ...[]string) *domain.Table {
	t.Helper()
	tbl, err := domain.NewTable(columns, rows)
	require.NoError(t, err)
	return tbl
}

func rowOf(t *testing.T, is domain.Issue) int {
	t.Helper()
	require.NotNil(t, is.Row, "issue %q should carry a row", is.Kind)
	return *is.Row
}

func columnOf(t *testing.T, is domain.Issue) string {
	t.Helper()
	require.NotNil(t, is.Column, "issue %q should carry a column", is.Kind)
	return *is.Column
}

func TestRequiredColumns_MissingColumn(t *testing.T) {
	tbl := table(t, []string{"tissue"}, []string{"liver"})

	issues := check.RequiredColumns(tbl, []string{"sample_id", "tissue", "sample_id"})

	require.Len(t, issues, 1)
	is := issues[0]
	assert.Equal(t, check.KindMissingColumn, is.Kind)
	assert.Equal(t, domain.SeverityError, is.Severity)
	assert.Equal(t, "sample_id", columnOf(t, is))
	assert.Nil(t, is.Row)
	assert.Contains(t, is.Message, "'sample_id'")
}

func TestRequiredColumns_AllPresent(t *testing.T) {
	tbl := table(t, []string{"sample_id"})
	assert.Empty(t, check.RequiredColumns(tbl, []string{"sample_id"}))
}

func TestNotNull_BlankAndWhitespace(t *testing.T) {
	tbl := table(t, []string{"sample_id"}, []string{"S1"}, []string{""}, []string{"   "})

	issues := check.NotNull(tbl, "sample_id")

	require.Len(t, issues, 2)
	assert.Equal(t, 1, rowOf(t, issues[0]))
	assert.Equal(t, 2, rowOf(t, issues[1]))
	assert.Equal(t, check.KindMissingValue, issues[0].Kind)
	assert.Equal(t, domain.SeverityError, issues[0].Severity)
}

func TestNotNull_MissingColumnIsSilent(t *testing.T) {
	tbl := table(t, []string{"tissue"}, []string{""})
	assert.Empty(t, check.NotNull(tbl, "sample_id"))
}

func TestNumericLowerBound(t *testing.T) {
	tbl := table(t, []string{"read_length"},
		[]string{"100"},
		[]string{"0"},
		[]string{"abc"},
		[]string{""},
		[]string{" 1 "},
		[]string{"NaN"},
	)

	issues := check.NumericLowerBound(tbl, "read_length", 1)

	require.Len(t, issues, 4)
	rows := []int{rowOf(t, issues[0]), rowOf(t, issues[1]), rowOf(t, issues[2]), rowOf(t, issues[3])}
	assert.Equal(t, []int{1, 2, 3, 5}, rows)
	for _, is := range issues {
		assert.Equal(t, domain.SeverityWarning, is.Severity)
		assert.Equal(t, check.KindBelowMinimum, is.Kind)
	}
}

func TestNumericLowerBound_InvalidFlaggedBelowSentinel(t *testing.T) {
	tbl := table(t, []string{"x"}, []string{"oops"}, []string{"-5"})
	issues := check.NumericLowerBound(tbl, "x", -10)
	require.Len(t, issues, 1)
	assert.Equal(t, 0, rowOf(t, issues[0]))
}

func TestParseNumber(t *testing.T) {
	v, ok := check.ParseNumber(" 2.5 ")
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-9)

	v, ok = check.ParseNumber("x")
	assert.False(t, ok)
	assert.Equal(t, check.InvalidNumber, v)
}

func TestAtLeastOneNonEmptyPerRow(t *testing.T) {
	tbl := table(t, []string{"sample_id", "tissue", "cell_line"},
		[]string{"S1", "liver", ""},
		[]string{"S2", "", " "},
		[]string{"", "", ""},
	)

	issues := check.AtLeastOneNonEmptyPerRow(tbl, []string{"tissue", "cell_line"}, "sample_id")

	require.Len(t, issues, 2)
	assert.Equal(t, 1, rowOf(t, issues[0]))
	assert.Contains(t, issues[0].Message, "'S2'")
	assert.Equal(t, 2, rowOf(t, issues[1]))
	assert.Contains(t, issues[1].Message, "'row_2'")
	assert.Equal(t, domain.SeverityError, issues[0].Severity)
	assert.Nil(t, issues[0].Column)
}

func TestAtLeastOneNonEmptyPerRow_EmptyGroup(t *testing.T) {
	tbl := table(t, []string{"a"}, []string{""})
	assert.Empty(t, check.AtLeastOneNonEmptyPerRow(tbl, nil, "sample_id"))
}

func TestIDCrosscheck_UnknownAndBlank(t *testing.T) {
	samples := table(t, []string{"sample_id"}, []string{"S1"}, []string{"S2"}, []string{""})
	files := table(t, []string{"sample_id", "filename"},
		[]string{"S1", "S1_R1.fastq.gz"},
		[]string{"S9", "S9_R1.fastq.gz"},
		[]string{" ", "orphan.fastq.gz"},
	)

	issues := check.IDCrosscheck(samples, files, "sample_id")

	require.Len(t, issues, 2)
	assert.Equal(t, check.KindFileUnknownSampleID, issues[0].Kind)
	assert.Equal(t, 1, rowOf(t, issues[0]))
	assert.Contains(t, issues[0].Message, "S9")
	assert.Equal(t, check.KindFileMissingSampleID, issues[1].Kind)
	assert.Equal(t, 2, rowOf(t, issues[1]))
}

func TestIDCrosscheck_MissingKeyIsNoop(t *testing.T) {
	samples := table(t, []string{"id"}, []string{"S1"})
	files := table(t, []string{"sample_id"}, []string{"S9"})
	assert.Empty(t, check.IDCrosscheck(samples, files, "sample_id"))
	assert.Empty(t, check.IDCrosscheck(files, samples, "sample_id"))
}

func pairedParams() check.PairedEndParams {
	return check.PairedEndParams{
		Key:          "sample_id",
		LayoutColumn: "layout",
		PairedValue:  "PAIRED",
		FileColumn:   "filename",
		R1:           regexp.MustCompile("_R1"),
		R2:           regexp.MustCompile("_R2"),
	}
}

func TestPairedEndComplete_MissingMate(t *testing.T) {
	files := table(t, []string{"sample_id", "layout", "filename"},
		[]string{"S1", "PAIRED", "S1_R1.fastq.gz"},
		[]string{"S2", "paired", "S2_R1.fastq.gz"},
		[]string{"S2", "PAIRED", "S2_R2.fastq.gz"},
		[]string{"S3", "SINGLE", "S3.fastq.gz"},
	)

	issues := check.PairedEndComplete(files, pairedParams())

	require.Len(t, issues, 1)
	is := issues[0]
	assert.Equal(t, check.KindPairedEndIncomplete, is.Kind)
	assert.Equal(t, domain.SeverityError, is.Severity)
	assert.Equal(t, 0, rowOf(t, is))
	assert.Equal(t, "filename", columnOf(t, is))
	assert.Contains(t, is.Message, "R2")
	assert.NotContains(t, is.Message, "R1 (")
}

func TestPairedEndComplete_AttributedToFirstRow(t *testing.T) {
	files := table(t, []string{"sample_id", "layout", "filename"},
		[]string{"S1", "SINGLE", "x.fastq"},
		[]string{"S4", "PAIRED", "S4_a.fastq"},
		[]string{"S4", "PAIRED", "S4_b.fastq"},
	)

	issues := check.PairedEndComplete(files, pairedParams())

	require.Len(t, issues, 1)
	assert.Equal(t, 1, rowOf(t, issues[0]))
	assert.Contains(t, issues[0].Message, "R1")
	assert.Contains(t, issues[0].Message, "R2")
}

func TestPairedEndComplete_MissingColumnIsNoop(t *testing.T) {
	files := table(t, []string{"sample_id", "filename"}, []string{"S1", "S1_R1.fastq"})
	assert.Empty(t, check.PairedEndComplete(files, pairedParams()))
}

func TestDatesISO8601(t *testing.T) {
	tbl := table(t, []string{"collection_date", "received"},
		[]string{"2024-01-01", "2024/01/01"},
		[]string{"2024/01/01", ""},
		[]string{" 2024-02-03 ", "01-02-2024"},
	)

	issues := check.DatesISO8601(tbl, []string{"collection_date", "received", "absent"})

	require.Len(t, issues, 3)
	assert.Equal(t, "collection_date", columnOf(t, issues[0]))
	assert.Equal(t, 1, rowOf(t, issues[0]))
	assert.Equal(t, "received", columnOf(t, issues[1]))
	assert.Equal(t, 0, rowOf(t, issues[1]))
	assert.Equal(t, 2, rowOf(t, issues[2]))
	for _, is := range issues {
		assert.Equal(t, domain.SeverityWarning, is.Severity)
		assert.Equal(t, check.KindDateNotISO8601, is.Kind)
	}
}

func TestProcessedDataPresent(t *testing.T) {
	files := table(t, []string{"sample_id", "filename"},
		[]string{"S1", "S1_R1.fastq.gz"},
		[]string{"S1", "S1.counts.tsv"},
		[]string{"S2", "S2_R1.fastq.gz"},
		[]string{"S3", "S3.bam"},
	)

	issues := check.ProcessedDataPresent(files, check.ProcessedDataParams{
		Key:              "sample_id",
		FileColumn:       "filename",
		RawMarker:        ".fastq",
		ProcessedMarkers: []string{".counts", ".quant", ".gene_counts"},
	})

	require.Len(t, issues, 1)
	assert.Equal(t, check.KindProcessedDataMissing, issues[0].Kind)
	assert.Equal(t, domain.SeverityWarning, issues[0].Severity)
	assert.Equal(t, 2, rowOf(t, issues[0]))
	assert.Contains(t, issues[0].Message, "'S2'")
}

func TestDuplicateValues(t *testing.T) {
	tbl := table(t, []string{"sample_id"},
		[]string{"S1"}, []string{"s1"}, []string{"S2"}, []string{""}, []string{""},
	)

	issues := check.DuplicateValues(tbl, "sample_id")

	require.Len(t, issues, 2)
	assert.Equal(t, 0, rowOf(t, issues[0]))
	assert.Equal(t, 1, rowOf(t, issues[1]))
	assert.Equal(t, check.KindDuplicateValue, issues[0].Kind)
}

func TestColumnNameMismatch(t *testing.T) {
	tbl := table(t, []string{"SampleID", "tissue", "sample_id", "Sample ID", "Tissue"})

	issues := check.ColumnNameMismatch(tbl)

	require.Len(t, issues, 2)
	assert.Contains(t, issues[0].Message, "SampleID, sample_id, Sample ID")
	assert.Contains(t, issues[0].Message, "'sample_id'")
	assert.Contains(t, issues[1].Message, "tissue, Tissue")
	assert.Nil(t, issues[0].Row)
	assert.Nil(t, issues[0].Column)
}

func TestNormalizeColumnName(t *testing.T) {
	cases := map[string]string{
		"SampleID":          "sample_id",
		"sample_id":         "sample_id",
		" Sample ID ":       "sample_id",
		"collection-date":   "collection_date",
		"readLength":        "read_length",
		"already_snake_123": "already_snake_123",
	}
	for in, want := range cases {
		assert.Equal(t, want, check.NormalizeColumnName(in), "input %q", in)
	}
}

func TestRowPredicate(t *testing.T) {
	tbl := table(t, []string{"sample_id", "layout"},
		[]string{"S1", "PAIRED"},
		[]string{" S2 ", "SINGLE"},
		[]string{"S3", "bad"},
	)
	var seen []map[string]string
	accept := func(row map[string]string) (bool, error) {
		seen = append(seen, row)
		switch row["layout"] {
		case "SINGLE":
			return false, nil
		case "bad":
			return false, errors.New("no such key: read_length")
		}
		return true, nil
	}

	issues := check.RowPredicate(tbl, accept, domain.SeverityWarning, "")

	require.Len(t, seen, 3)
	assert.Equal(t, "S2", seen[1]["sample_id"])
	require.Len(t, issues, 2)
	assert.Equal(t, 1, rowOf(t, issues[0]))
	assert.Equal(t, check.KindRowRejected, issues[0].Kind)
	assert.Equal(t, domain.SeverityWarning, issues[0].Severity)
	assert.Nil(t, issues[0].Column)
	assert.Contains(t, issues[0].Message, "rule expression")
	assert.Equal(t, 2, rowOf(t, issues[1]))
	assert.Contains(t, issues[1].Message, "no such key")
}
