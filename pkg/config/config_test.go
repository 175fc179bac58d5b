package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "embedeverything", cfg.Embedding.Provider)
	assert.Equal(t, "BAAI/bge-m3", cfg.Embedding.Model)
	assert.Equal(t, 0.5, cfg.Scoring.Threshold)
	assert.Equal(t, 3, cfg.Scoring.TopK)
	assert.Equal(t, 200, cfg.Scoring.MaxCandidates)
	assert.Equal(t, 10, cfg.LLM.MaxRetries)
	assert.True(t, cfg.Reranker.RawScores)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RERANKER_BASE_URL", "http://reranker:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "http://reranker:9000", cfg.Reranker.BaseURL)
}
