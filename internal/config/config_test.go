package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, "server:\n  port: 8080\n"))
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "text-embedding-3-large", cfg.OpenAI.EmbeddingModel)
	require.Equal(t, 3072, cfg.OpenAI.EmbeddingDimensions)
	require.Equal(t, "whisper-1", cfg.OpenAI.TranscriptionModel)
	require.Equal(t, 10, cfg.ElevenLabs.DurationSeconds)
	require.InDelta(t, 0.3, cfg.ElevenLabs.PromptInfluence, 1e-9)
	require.InDelta(t, 0.9, cfg.Dedup.ReuseThreshold, 1e-9)
	require.Equal(t, 4, cfg.Dedup.EmbedWorkers)
	require.False(t, cfg.Dedup.PartialResults)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, `
server:
  port: 9090
  mode: release
dedup:
  reuse_threshold: 0.85
  partial_results: true
elevenlabs:
  duration_seconds: 5
`))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "release", cfg.Server.Mode)
	require.InDelta(t, 0.85, cfg.Dedup.ReuseThreshold, 1e-9)
	require.True(t, cfg.Dedup.PartialResults)
	require.Equal(t, 5, cfg.ElevenLabs.DurationSeconds)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ELEVENLABS_API_KEY", "el-test")
	t.Setenv("DEDUP_REUSE_THRESHOLD", "0.95")

	cfg, err := Load(writeConfigFile(t, "dedup:\n  reuse_threshold: 0.8\n"))
	require.NoError(t, err)

	require.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	require.Equal(t, "el-test", cfg.ElevenLabs.APIKey)
	require.InDelta(t, 0.95, cfg.Dedup.ReuseThreshold, 1e-9, "explicit env binding wins over the file value")
}
