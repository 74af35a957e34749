package domain_test

import (
	"testing"

	"github.com/fairyhq/fairy/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_Accessors(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, domain.DefaultKind, cfg.EffectiveKind())
	assert.Equal(t, domain.DefaultOutDir, cfg.EffectiveOutDir())
	assert.Equal(t, domain.TablesConfig{Samples: "samples.tsv", Files: "files.tsv"}, cfg.EffectiveTables())
	assert.Equal(t, domain.LogConfig{Level: "warn", Format: "text"}, cfg.EffectiveLog())
	assert.False(t, cfg.FailOnNotReady)
}

func TestEffectiveKind_Override(t *testing.T) {
	cfg := domain.ProjectConfig{Kind: "generic"}
	assert.Equal(t, "generic", cfg.EffectiveKind())
}

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	assert.NoError(t, domain.DefaultConfig().Validate())
}

func TestValidate_UnknownLogLevel(t *testing.T) {
	cfg := domain.ProjectConfig{Log: domain.LogConfig{Level: "loud"}}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log.level")
	assert.Contains(t, err.Error(), "loud")
}

func TestValidate_UnknownLogFormat(t *testing.T) {
	cfg := domain.ProjectConfig{Log: domain.LogConfig{Format: "xml"}}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log.format")
}

func TestValidate_SameTables(t *testing.T) {
	cfg := domain.ProjectConfig{Tables: domain.TablesConfig{Samples: "a.tsv", Files: "a.tsv"}}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must differ")
}

func TestValidate_EmptySourceURL(t *testing.T) {
	empty := ""
	cfg := domain.ProjectConfig{Provenance: domain.Provenance{SourceURL: &empty}}
	assert.Error(t, cfg.Validate())
}
