package table_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fairyhq/fairy/internal/adapters/outbound/table"
	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_TSV(t *testing.T) {
	tbl, err := table.Parse([]byte("sample_id\ttissue\nS1\tliver\nS2\n"), ".tsv")
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_id", "tissue"}, tbl.Columns)
	assert.Equal(t, [][]string{{"S1", "liver"}, {"S2", ""}}, tbl.Rows)
}

func TestParse_DelimiterOnlyRowIsKept(t *testing.T) {
	tbl, err := table.Parse([]byte("sample_id\ttissue\nS1\tliver\n\t\nS3\tlung\n"), ".tsv")
	require.NoError(t, err)
	require.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, "", tbl.Value(1, "sample_id"))
	assert.Equal(t, "S3", tbl.Value(2, "sample_id"))

	issues := check.NotNull(tbl, "sample_id")
	require.Len(t, issues, 1)
	assert.Equal(t, 1, *issues[0].Row)
}

func TestParse_CSVWithQuotesAndBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("sample_id,notes\nS1,\"a, b\"\n\n")...)
	tbl, err := table.Parse(data, ".csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_id", "notes"}, tbl.Columns)
	assert.Equal(t, "a, b", tbl.Value(0, "notes"))
	assert.Equal(t, 1, tbl.NumRows())
}

func TestSniff(t *testing.T) {
	cases := map[string]rune{
		"a\tb\tc\n1\t2\t3": '\t',
		"a,b,c\n1,2,3":     ',',
		"a;b;c":            ';',
		"a|b":              '|',
		"single":           '\t',
	}
	for in, want := range cases {
		assert.Equal(t, want, table.Sniff([]byte(in)), "input %q", in)
	}
}

func TestParse_TxtIsSniffed(t *testing.T) {
	tbl, err := table.Parse([]byte("sample_id;tissue\nS1;liver\n"), ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_id", "tissue"}, tbl.Columns)
}

func TestParse_JSONRecords(t *testing.T) {
	data := `[{"sample_id": "S1", "read_length": 100}, {"tissue": "liver", "sample_id": null, "paired": true}]`
	tbl, err := table.Parse([]byte(data), ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{"sample_id", "read_length", "tissue", "paired"}, tbl.Columns)
	assert.Equal(t, [][]string{{"S1", "100", "", ""}, {"", "", "liver", "true"}}, tbl.Rows)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		data string
		ext  string
	}{
		{"empty", "  \n", ".tsv"},
		{"duplicate header", "a\ta\n1\t2", ".tsv"},
		{"row longer than header", "a\n1\t2", ".tsv"},
		{"invalid utf8", "a\n\xff", ".tsv"},
		{"json object", `{"a": 1}`, ".json"},
		{"json nested", `[{"a": [1]}]`, ".json"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := table.Parse([]byte(tc.data), tc.ext)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLoad_HashIsStable(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	content := []byte("sample_id,read_length\nS1,100\n")
	require.NoError(t, os.WriteFile(a, content, 0o644))
	require.NoError(t, os.WriteFile(b, content, 0o644))

	la, err := table.New().Load(a)
	require.NoError(t, err)
	lb, err := table.New().Load(b)
	require.NoError(t, err)

	assert.Equal(t, la.SHA256, lb.SHA256)
	assert.Len(t, la.SHA256, 64)
	assert.Equal(t, int64(len(content)), la.Bytes)
	assert.Equal(t, 1, la.Table.NumRows())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := table.New().Load(filepath.Join(t.TempDir(), "nope.tsv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsTableFile(t *testing.T) {
	assert.True(t, table.IsTableFile("samples.TSV"))
	assert.True(t, table.IsTableFile("x.json"))
	assert.False(t, table.IsTableFile("report.md"))
}
