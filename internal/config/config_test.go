package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/enricher")

	var cfg Config
	require.NoError(t, Init(&cfg))
	require.NoError(t, cfg.Resolve())

	assert.Equal(t, 200, cfg.ChunkSize)
	assert.InDelta(t, 0.1, cfg.ChunkOverlap, 1e-9)
	assert.Equal(t, "https://api.deepseek.com/v1/chat/completions", cfg.LLMURL)
	assert.Equal(t, "deepseek-reasoner", cfg.LLMModel)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbedModel)
	assert.Equal(t, filepath.Join("/tmp/enricher", "runs.db"), cfg.DBFile)
	assert.Equal(t, filepath.Join("/tmp/enricher", "commentary.gob.gz"), cfg.VectorFile)
}

func TestResolvePreset(t *testing.T) {
	t.Setenv("LLM_PRESET", "openrouter-claude")
	t.Setenv("LLM_API_KEY", "secret")

	var cfg Config
	require.NoError(t, Init(&cfg))
	require.NoError(t, cfg.Resolve())

	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", cfg.LLMURL)
	assert.Equal(t, "anthropic/claude-3-sonnet", cfg.LLMModel)
	assert.Equal(t, "secret", cfg.EmbedKey)
}

func TestResolveModelOnly(t *testing.T) {
	t.Setenv("LLM_MODEL", "deepseek-chat")

	var cfg Config
	require.NoError(t, Init(&cfg))
	require.NoError(t, cfg.Resolve())

	assert.Equal(t, "https://api.deepseek.com/v1/chat/completions", cfg.LLMURL)
	assert.Equal(t, "deepseek-chat", cfg.LLMModel)
}

func TestResolvePresetKeepsExplicitModel(t *testing.T) {
	t.Setenv("LLM_PRESET", "openrouter-claude")
	t.Setenv("LLM_MODEL", "anthropic/claude-3.5-sonnet")

	var cfg Config
	require.NoError(t, Init(&cfg))
	require.NoError(t, cfg.Resolve())

	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", cfg.LLMURL)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", cfg.LLMModel)
}

func TestResolveRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"CHUNK_SIZE":          "0",
		"CHUNK_OVERLAP_RATIO": "1",
		"MAX_CONCURRENCY":     "0",
		"LLM_PRESET":          "nope",
		"LOG_LEVEL":           "trace",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			var cfg Config
			require.NoError(t, Init(&cfg))
			assert.Error(t, cfg.Resolve())
		})
	}
}

func TestPresetNames(t *testing.T) {
	assert.Equal(t, []string{"deepseek", "openrouter-claude"}, PresetNames())
}
