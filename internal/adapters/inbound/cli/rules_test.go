package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhq/fairy/internal/adapters/inbound/cli"
)

func TestRulesCmd_DefaultPack(t *testing.T) {
	stdout, err := execute(t, cli.NewRootCmdForTest(), "rules")
	require.NoError(t, err)
	assert.Contains(t, stdout, "GEO-SEQ-BULK@0.1.0 (8 rules)")
	assert.Contains(t, stdout, "GEO.FILE.PAIRED_MATE_MISSING")
	assert.Contains(t, stdout, "paired_end_complete")
}

func TestRulesCmd_MarksUnknownChecks(t *testing.T) {
	stdout, err := execute(t, cli.NewRootCmdForTest(), "rules", "--rulepack", fixture(t, "rulepacks", "lab.yaml"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "LAB-MINIMAL@1.0.0 (4 rules)")
	assert.Contains(t, stdout, "checksum_matches (unsupported, skipped)")
	assert.Contains(t, stdout, "row_expression")
}

func TestRulesCmd_JSON(t *testing.T) {
	stdout, err := execute(t, cli.NewRootCmdForTest(), "rules", "--json")
	require.NoError(t, err)

	var pack map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &pack))
	assert.Equal(t, "GEO-SEQ-BULK", pack["rulepack_id"])
	assert.Len(t, pack["rules"], 8)
}
