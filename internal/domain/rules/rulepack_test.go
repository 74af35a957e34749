package rules_test

import (
	"encoding/json"
	"testing"

	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_DefaultsIdentity(t *testing.T) {
	pack, err := rules.Compile(rules.Document{Rules: []rules.RuleDocument{}})
	require.NoError(t, err)
	assert.Equal(t, rules.UnknownRulepackID, pack.ID)
	assert.Equal(t, rules.UnknownRulepackVersion, pack.Version)
	assert.Empty(t, pack.Rules)
}

func TestCompile_RejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  rules.Document
	}{
		{"non-semver version", rules.Document{RulepackVersion: "one", Rules: []rules.RuleDocument{}}},
		{"no rules list", rules.Document{RulepackID: "X", RulepackVersion: "1.0.0"}},
		{"empty code", rules.Document{Rules: []rules.RuleDocument{{Check: map[string]any{"type": "not_null"}}}}},
		{"duplicate code", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "not_null"}},
			{Code: "A", Check: map[string]any{"type": "not_null"}},
		}}},
		{"missing type", rules.Document{Rules: []rules.RuleDocument{{Code: "A", Check: map[string]any{}}}}},
		{"require_columns without list", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "require_columns"}},
		}}},
		{"bad regex", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "paired_end_complete", "r1_pattern": "(["}},
		}}},
		{"bad table role", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "not_null", "table": "runs"}},
		}}},
		{"wrong param type", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "numeric_min", "min": "ten"}},
		}}},
		{"empty expression", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "row_expression"}},
		}}},
		{"expression syntax error", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "row_expression", "expression": "row.layout =="}},
		}}},
		{"non-bool expression", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "row_expression", "expression": "row.layout"}},
		}}},
		{"expression severity", rules.Document{Rules: []rules.RuleDocument{
			{Code: "A", Check: map[string]any{"type": "row_expression", "expression": "true", "severity": "info"}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.Compile(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestParseCheck_Defaults(t *testing.T) {
	c, err := rules.ParseCheck(map[string]any{"type": rules.TypePairedEndComplete})
	require.NoError(t, err)
	pe, ok := c.(rules.PairedEndComplete)
	require.True(t, ok)
	assert.Equal(t, "sample_id", pe.SamplesKey)
	assert.Equal(t, "layout", pe.LayoutColumn)
	assert.Equal(t, "PAIRED", pe.LayoutValueForPaired)
	assert.Equal(t, "filename", pe.FileColumn)
	assert.Equal(t, "_R1", pe.R1Pattern)
	assert.Equal(t, "_R2", pe.R2Pattern)

	c, err = rules.ParseCheck(map[string]any{"type": rules.TypeProcessedDataPresent})
	require.NoError(t, err)
	pd := c.(rules.ProcessedDataPresent)
	assert.Equal(t, ".fastq", pd.RawFileGlob)
	assert.Equal(t, []string{".counts", ".quant", ".gene_counts"}, pd.ProcessedGlobCandidates)

	c, err = rules.ParseCheck(map[string]any{"type": rules.TypeIDCrosscheck})
	require.NoError(t, err)
	assert.Equal(t, "sample_id", c.(rules.IDCrosscheck).LeftKey)

	c, err = rules.ParseCheck(map[string]any{"type": rules.TypeNumericMin})
	require.NoError(t, err)
	nm := c.(rules.NumericMin)
	assert.Equal(t, "read_length", nm.Column)
	assert.InDelta(t, 1.0, nm.Min, 1e-9)
	assert.Equal(t, rules.TableSamples, nm.Table)
}

func TestParseCheck_OverridesDefaults(t *testing.T) {
	c, err := rules.ParseCheck(map[string]any{
		"type":       rules.TypeNotNull,
		"column":     "filename",
		"table":      "files",
		"extra_note": "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, rules.NotNull{Column: "filename", Table: rules.TableFiles}, c)
}

func TestParseCheck_UnknownTypeIsTolerated(t *testing.T) {
	c, err := rules.ParseCheck(map[string]any{"type": "future_check", "threshold": 3.0})
	require.NoError(t, err)
	u, ok := c.(rules.UnknownCheck)
	require.True(t, ok)
	assert.Equal(t, "future_check", u.Type())
	assert.Empty(t, u.Evaluate(rules.Inputs{}))

	desc, err := rules.Describe(c)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "future_check", "threshold": 3.0}, desc)
}

func TestRuleMarshalJSON_IncludesCheckType(t *testing.T) {
	pack, err := rules.Compile(rules.Document{
		RulepackID:      "P",
		RulepackVersion: "1.2.3",
		Rules: []rules.RuleDocument{{
			Code:  "DATES",
			Check: map[string]any{"type": "dates_are_iso8601", "columns": []any{"collection_date"}},
			Where: "samples.tsv",
		}},
	})
	require.NoError(t, err)

	data, err := json.Marshal(pack)
	require.NoError(t, err)

	var out struct {
		Rules []struct {
			Code  string         `json:"code"`
			Check map[string]any `json:"check"`
		} `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Rules, 1)
	assert.Equal(t, "DATES", out.Rules[0].Code)
	assert.Equal(t, "dates_are_iso8601", out.Rules[0].Check["type"])
	assert.Equal(t, []any{"collection_date"}, out.Rules[0].Check["columns"])
}
