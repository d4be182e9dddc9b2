package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUtterance(t *testing.T) {
	u := NewUtterance("  Friday Open Chrome ")
	assert.Equal(t, "Friday Open Chrome", u.Raw)
	assert.Equal(t, "friday open chrome", u.Normalized)
	require.Len(t, u.ID, 36)
	assert.Len(t, u.ShortID(), 8)

	v := u.WithText("Open Chrome")
	assert.Equal(t, u.ID, v.ID)
	assert.Equal(t, "open chrome", v.Normalized)
	assert.Equal(t, "friday open chrome", u.Normalized, "original left untouched")
}

func TestFaultWrapping(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("weather: %w", NewFault(FaultNetwork, "openweathermap", base))

	var f *Fault
	require.True(t, errors.As(err, &f))
	assert.Equal(t, FaultNetwork, f.Kind)
	assert.Equal(t, "openweathermap", f.Op)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "network fault")

	assert.NoError(t, NewFault(FaultService, "x", nil))
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("azure tts", "AZURE_SPEECH_KEY not set")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "azure tts: AZURE_SPEECH_KEY not set: unavailable", err.Error())
}

func TestRecognitionOutcome(t *testing.T) {
	assert.True(t, TextOutcome("hello").HasText())
	assert.False(t, TextOutcome("").HasText())
	assert.False(t, Outcome(OutcomeTimeout).HasText())
	assert.Equal(t, "network_error", OutcomeNetworkError.String())
	assert.Equal(t, "handled", Handled.String())
}
