package speech

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

func TestMouthFallsThroughToFirstWorkingProvider(t *testing.T) {
	azure := &fakeProvider{name: ProviderAzure, unavail: domain.Unavailable("azure", "no key")}
	eleven := &fakeProvider{name: ProviderElevenLabs, speakErr: domain.NewFault(domain.FaultNetwork, "elevenlabs", errBoom)}
	gtts := &fakeProvider{name: ProviderGTTS}
	local := &fakeProvider{name: ProviderLocal}

	var shown []string
	m := NewMouth([]Provider{azure, eleven, gtts, local}, logger.New(logger.LevelOff, nil),
		WithTranscript(func(s string) { shown = append(shown, s) }))

	m.Say(context.Background(), "Launching Chrome.")

	assert.Equal(t, ProviderGTTS, m.LastProvider())
	assert.Equal(t, []string{"Launching Chrome."}, gtts.spoken)
	assert.Empty(t, local.spoken)
	assert.Equal(t, []string{"Launching Chrome."}, shown, "echo printed exactly once")
}

func TestMouthEchoWhenNothingAudible(t *testing.T) {
	a := &fakeProvider{name: ProviderAzure, unavail: domain.ErrUnavailable}
	b := &fakeProvider{name: ProviderLocal, speakErr: errBoom}

	var shown []string
	m := NewMouth([]Provider{a, b}, logger.New(logger.LevelOff, nil),
		WithTranscript(func(s string) { shown = append(shown, s) }))

	m.Say(context.Background(), "**Hello** Boss")

	assert.Equal(t, ProviderEcho, m.LastProvider())
	assert.Equal(t, []string{"Hello Boss"}, shown)
	assert.Equal(t, "Hello Boss", m.LastSpoken())
}

func TestMouthPinnedProviderFirst(t *testing.T) {
	azure := &fakeProvider{name: ProviderAzure}
	local := &fakeProvider{name: ProviderLocal}
	m := NewMouth([]Provider{azure, local}, logger.New(logger.LevelOff, nil), WithPinnedProvider("local"))

	m.Say(context.Background(), "hi")
	assert.Equal(t, ProviderLocal, m.LastProvider())
	assert.Empty(t, azure.spoken)
}

func TestMouthPinnedEchoNeverSpeaks(t *testing.T) {
	azure := &fakeProvider{name: ProviderAzure}
	local := &fakeProvider{name: ProviderLocal}

	var shown []string
	m := NewMouth([]Provider{azure, local}, logger.New(logger.LevelOff, nil),
		WithPinnedProvider(" Echo "),
		WithTranscript(func(s string) { shown = append(shown, s) }))

	m.Say(context.Background(), "Volume muted.")

	assert.Equal(t, ProviderEcho, m.LastProvider())
	assert.Empty(t, azure.spoken)
	assert.Empty(t, local.spoken)
	assert.Equal(t, []string{"Volume muted."}, shown)
}

func TestMouthPinnedProviderFallsBackToNormalOrder(t *testing.T) {
	azure := &fakeProvider{name: ProviderAzure}
	local := &fakeProvider{name: ProviderLocal, unavail: domain.ErrUnavailable}
	m := NewMouth([]Provider{azure, local}, logger.New(logger.LevelOff, nil), WithPinnedProvider("local"))

	m.Say(context.Background(), "hi")
	assert.Equal(t, ProviderAzure, m.LastProvider())
}

func TestMouthReevaluatesEveryCall(t *testing.T) {
	azure := &fakeProvider{name: ProviderAzure, unavail: domain.ErrUnavailable}
	local := &fakeProvider{name: ProviderLocal}
	m := NewMouth([]Provider{azure, local}, logger.New(logger.LevelOff, nil))

	m.Say(context.Background(), "one")
	require.Equal(t, ProviderLocal, m.LastProvider())

	azure.unavail = nil
	m.Say(context.Background(), "two")
	assert.Equal(t, ProviderAzure, m.LastProvider())
}

func TestMouthSkipsEmptyText(t *testing.T) {
	p := &fakeProvider{name: ProviderLocal}
	m := NewMouth([]Provider{p}, logger.New(logger.LevelOff, nil))
	m.Say(context.Background(), "   ")
	assert.Empty(t, p.spoken)
}

func TestMouthStopsOnCancel(t *testing.T) {
	p := &fakeProvider{name: ProviderLocal}
	m := NewMouth([]Provider{p}, logger.New(logger.LevelOff, nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m.Say(ctx, "too late")
	assert.Empty(t, p.spoken)
	assert.Equal(t, ProviderEcho, m.LastProvider())
}

func TestAudioProviderPlaysAndCaches(t *testing.T) {
	synth := &fakeSynth{samples: 4800}
	sink := &fakeSink{}
	p := NewAudioProvider(synth, sink, logger.New(logger.LevelOff, nil))

	require.NoError(t, p.Available())
	require.NoError(t, p.Speak(context.Background(), "Hello there."))
	require.NoError(t, p.Speak(context.Background(), "Hello there."))

	assert.Equal(t, 1, synth.calls, "second call served from cache")
	require.Len(t, sink.played, 2)
	assert.Len(t, sink.played[0].Samples, 4800)
}

func TestAudioProviderChunksLongText(t *testing.T) {
	synth := &fakeSynth{samples: 100}
	sink := &fakeSink{}
	p := NewAudioProvider(synth, sink, logger.New(logger.LevelOff, nil), WithChunkSize(20))

	require.NoError(t, p.Speak(context.Background(), "First sentence here. Second sentence here. Third one."))

	assert.Equal(t, 3, synth.calls)
	require.Len(t, sink.played, 1, "chunks are joined into one clip")
	assert.Len(t, sink.played[0].Samples, 300)
}

func TestAudioProviderSynthesisFailurePlaysNothing(t *testing.T) {
	synth := &fakeSynth{err: domain.NewFault(domain.FaultService, "fake", errBoom)}
	sink := &fakeSink{}
	p := NewAudioProvider(synth, sink, logger.New(logger.LevelOff, nil))

	err := p.Speak(context.Background(), "hi")
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, sink.played)
}

func TestAudioProviderTempoFallback(t *testing.T) {
	// 100 samples is shorter than two analysis windows, so compression
	// fails and the original clip is played.
	synth := &fakeSynth{samples: 100}
	sink := &fakeSink{}
	p := NewAudioProvider(synth, sink, logger.New(logger.LevelOff, nil), WithSpeed(1.5))

	require.NoError(t, p.Speak(context.Background(), "hi"))
	require.Len(t, sink.played, 1)
	assert.Len(t, sink.played[0].Samples, 100)
	assert.Equal(t, 1, synth.calls, "no re-synthesis")
}

func TestAudioProviderTempoApplied(t *testing.T) {
	synth := &fakeSynth{samples: SampleRate}
	sink := &fakeSink{}
	p := NewAudioProvider(synth, sink, logger.New(logger.LevelOff, nil), WithSpeed(1.25))

	require.NoError(t, p.Speak(context.Background(), "hi"))
	require.Len(t, sink.played, 1)
	assert.InDelta(t, 0.8, sink.played[0].Duration(), 0.05)
}

func TestAudioProviderWithoutSinkIsUnavailable(t *testing.T) {
	p := NewAudioProvider(&fakeSynth{}, nil, logger.New(logger.LevelOff, nil))
	assert.ErrorIs(t, p.Available(), domain.ErrUnavailable)
}

func TestAudioProviderPlaybackFault(t *testing.T) {
	p := NewAudioProvider(&fakeSynth{samples: 10}, &fakeSink{err: errBoom}, logger.New(logger.LevelOff, nil))
	err := p.Speak(context.Background(), "hi")

	var f *domain.Fault
	require.ErrorAs(t, err, &f)
	assert.Equal(t, domain.FaultDevice, f.Kind)
}
