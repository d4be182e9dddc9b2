package speech

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

func TestSplitChunks(t *testing.T) {
	assert.Nil(t, splitChunks("   ", 10))
	assert.Equal(t, []string{"Short."}, splitChunks("Short.", 100))
	assert.Equal(t, []string{"No limit. At all."}, splitChunks("No limit. At all.", 0))

	got := splitChunks("One. Two! Three? Four.", 10)
	assert.Equal(t, []string{"One. Two!", "Three?", "Four."}, got)
}

func TestCleanForSpeech(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"\x1b[31mAlert\x1b[0m", "Alert"},
		{"[INFO] Loaded", "Loaded"},
		{"**Bold** and `code`", "Bold and code"},
		{"# Heading\n- item one\n- item two", "Heading item one item two"},
		{"See [the docs](https://example.com) now", "See the docs now"},
		{"  many   spaces  ", "many spaces"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanForSpeech(tt.in), "input %q", tt.in)
	}
}

func TestCleanTranscription(t *testing.T) {
	assert.Equal(t, "open chrome", cleanTranscription(" open  (noise) chrome "))
	assert.Equal(t, "", cleanTranscription("[BLANK_AUDIO]"))
}

func TestConsoleEar(t *testing.T) {
	prompts := 0
	c := NewConsoleEar(strings.NewReader("friday open chrome\n\n  status  \n"), func() { prompts++ },
		logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	out := c.Listen(ctx, time.Second, time.Second)
	assert.Equal(t, domain.TextOutcome("friday open chrome"), out)

	out = c.Listen(ctx, time.Second, time.Second)
	assert.Equal(t, domain.OutcomeTimeout, out.Kind, "blank line is silence")

	out = c.Listen(ctx, time.Second, time.Second)
	assert.Equal(t, domain.TextOutcome("status"), out)

	out = c.Listen(ctx, time.Second, time.Second)
	assert.Equal(t, domain.OutcomeClosed, out.Kind)

	assert.Equal(t, 4, prompts)
}

func TestAudioCache(t *testing.T) {
	c := NewAudioCache(logger.New(logger.LevelOff, nil))
	clip := PCM{Samples: []int16{1, 2}, SampleRate: SampleRate}

	_, ok := c.Get("azure/v1", "hi")
	assert.False(t, ok)

	c.Put("azure/v1", "hi", clip)
	got, ok := c.Get("azure/v1", "hi")
	assert.True(t, ok)
	assert.Equal(t, clip, got)

	_, ok = c.Get("azure/v2", "hi")
	assert.False(t, ok, "voice is part of the key")

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
	assert.Equal(t, 1, c.Len())
}
