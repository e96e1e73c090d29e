package config

import (
	"testing"

	"github.com/manimatic/manimatic-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("MAX_RATE_ADJUST", "")
	t.Setenv("MAX_SCRIPT_ATTEMPTS", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tts-1", cfg.OpenAITTSModel)
	assert.InDelta(t, 0.15, cfg.MaxRateAdjust, 1e-9)
	assert.Equal(t, 3, cfg.MaxScriptAttempts)
}

func TestLoadRequiresAnthropicKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, entity.FailConfiguration, entity.KindOf(err, ""))
}

func TestLoadRejectsBadRateAdjust(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_RATE_ADJUST", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, entity.FailConfiguration, entity.KindOf(err, ""))
}

func TestLoadRejectsZeroScriptAttempts(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_SCRIPT_ATTEMPTS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, entity.FailConfiguration, entity.KindOf(err, ""))
}
