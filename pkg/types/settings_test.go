package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	def := DefaultSettings()

	got := SettingsPayload{}.Normalize()
	assert.Equal(t, def.General.SystemName, got.General.SystemName)
	assert.Equal(t, def.General.DefaultLanguage, got.General.DefaultLanguage)
	assert.Equal(t, def.RAG.TopK, got.RAG.TopK)
	assert.Equal(t, def.LLM.Model, got.LLM.Model)
	assert.Equal(t, def.Ingest.ChunkTargetSize, got.Ingest.ChunkTargetSize)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	p := SettingsPayload{}
	p.General.SystemName = "AcmeGPT"
	p.RAG.TopK = 3
	p.LLM.Model = "gpt-4o"

	got := p.Normalize()
	assert.Equal(t, "AcmeGPT", got.General.SystemName)
	assert.Equal(t, 3, got.RAG.TopK)
	assert.Equal(t, "gpt-4o", got.LLM.Model)
}

func TestSettingsPayloadScan(t *testing.T) {
	var p SettingsPayload

	// NULL column means defaults
	assert.NoError(t, p.Scan(nil))
	assert.Equal(t, DefaultSettings().General.SystemName, p.General.SystemName)

	raw, err := json.Marshal(map[string]any{
		"general": map[string]any{"systemName": "AcmeGPT"},
	})
	assert.NoError(t, err)
	assert.NoError(t, p.Scan(raw))
	assert.Equal(t, "AcmeGPT", p.General.SystemName)
}
