package history_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fairyhq/fairy/internal/adapters/outbound/history"
	"github.com/fairyhq/fairy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	entry := domain.RunEntry{
		RunID:           "run-1",
		RunAtUTC:        "2026-02-25T10:00:00Z",
		RulepackID:      "GEO-SEQ-BULK",
		RulepackVersion: "0.1.0",
		CommitHash:      "abc1234",
		FailCount:       2,
		WarnCount:       1,
	}

	err := h.Save(dir, entry)
	require.NoError(t, err)

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestHistory_AppendMultiple(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	require.NoError(t, h.Save(dir, domain.RunEntry{RunID: "a", FailCount: 3}))
	require.NoError(t, h.Save(dir, domain.RunEntry{RunID: "b", FailCount: 1}))
	require.NoError(t, h.Save(dir, domain.RunEntry{RunID: "c", SubmissionReady: true}))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].RunID)
	assert.True(t, entries[2].SubmissionReady)
}

func TestHistory_LoadEmpty(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	entries, err := h.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	nestedDir := filepath.Join(dir, "deep", "nested")
	h := history.New()

	err := h.Save(nestedDir, domain.RunEntry{RunID: "x"})
	require.NoError(t, err)

	_, err = os.Stat(history.Path(nestedDir))
	require.NoError(t, err)

	entries, err := h.Load(nestedDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistory_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	fp := history.Path(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0755))
	require.NoError(t, os.WriteFile(fp, []byte("not json"), 0644))

	_, err := history.New().Load(dir)
	assert.Error(t, err)
}
