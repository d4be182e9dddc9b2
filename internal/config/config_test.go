package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, envs := range envBindings {
		for _, e := range envs {
			t.Setenv(e, "")
			os.Unsetenv(e)
		}
	}

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "friday", cfg.WakeWord)
	assert.True(t, cfg.Continuous)
	assert.Equal(t, "Visakhapatnam", cfg.City)
	assert.Equal(t, 15, cfg.Memory.Pairs)
	assert.Equal(t, "gpt-4o-mini", cfg.Chat.OpenAIModel)
	assert.Equal(t, "en-IN", cfg.Listen.Language)
	assert.Equal(t, 800*time.Millisecond, cfg.Listen.Pause)
	assert.Equal(t, 10*time.Second, cfg.Listen.PhraseLimit)
	assert.Equal(t, 2, cfg.Status.UnreadEmails)
	assert.Equal(t, 0, cfg.Status.PendingAlerts)
	assert.Equal(t, 1.0, cfg.Speech.Speed)
	assert.Empty(t, cfg.Speech.Provider)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FRIDAY_WAKE_WORD", "  Jarvis ")
	t.Setenv("FRIDAY_CONTINUOUS", "false")
	t.Setenv("CITY", "Pune")
	t.Setenv("FRIDAY_TTS_PROVIDER", "ElevenLabs")
	t.Setenv("FRIDAY_PAUSE_THRESHOLD", "1.5")
	t.Setenv("FRIDAY_UNREAD_EMAILS", "7")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "jarvis", cfg.WakeWord)
	assert.False(t, cfg.Continuous)
	assert.Equal(t, "Pune", cfg.City)
	assert.Equal(t, "elevenlabs", cfg.Speech.Provider)
	assert.Equal(t, 1500*time.Millisecond, cfg.Listen.Pause)
	assert.Equal(t, 7, cfg.Status.UnreadEmails)
}

func TestCityPrecedence(t *testing.T) {
	t.Setenv("FRIDAY_DEFAULT_CITY", "Chennai")
	t.Setenv("CITY", "Pune")
	t.Setenv("LOCATION", "Delhi")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "Chennai", cfg.City)
}

func TestLoadRejectsBadMemorySize(t *testing.T) {
	t.Setenv("FRIDAY_MEMORY_PAIRS", "0")
	_, err := Load(New())
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("FRIDAY_PENDING_ALERTS=3\n"), 0o644))

	t.Setenv("FRIDAY_PENDING_ALERTS", "")
	os.Unsetenv("FRIDAY_PENDING_ALERTS")
	LoadDotEnv(path)
	t.Cleanup(func() { os.Unsetenv("FRIDAY_PENDING_ALERTS") })

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Status.PendingAlerts)
}
