package speech

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger"
)

// calibration reads 600 ms, i.e. six 100 ms frames.
const calibrationFrames = 6

func newTestEar(t *testing.T, mic *fakeMic, rec *fakeRecognizer, opts ...EarOption) (*Ear, *recordingSpeaker) {
	t.Helper()
	sp := &recordingSpeaker{}
	opts = append([]EarOption{
		WithFrameSize(testFrame),
		WithEnergyThreshold(300),
		WithPauseThreshold(ms(300)),
		WithPrompter(sp),
	}, opts...)
	return NewEar(mic, rec, logger.New(logger.LevelOff, nil), opts...), sp
}

func TestEarCalibrationKeepsFloor(t *testing.T) {
	mic := &fakeMic{rate: 16000, script: repeat(100, calibrationFrames)}
	ear, _ := newTestEar(t, mic, &fakeRecognizer{})
	assert.Equal(t, 300.0, ear.Threshold())
	assert.Equal(t, calibrationFrames, mic.reads)
	assert.Equal(t, 1, mic.stops)
}

func TestEarCalibrationRaisesThreshold(t *testing.T) {
	mic := &fakeMic{rate: 16000, script: repeat(400, calibrationFrames)}
	ear, _ := newTestEar(t, mic, &fakeRecognizer{})
	assert.InDelta(t, 600.0, ear.Threshold(), 0.5)
}

func TestEarCapturesPhrase(t *testing.T) {
	script := repeat(100, calibrationFrames)
	script = append(script, repeat(100, 2)...)  // pre-roll
	script = append(script, repeat(1000, 5)...) // speech
	mic := &fakeMic{rate: 16000, script: script, tail: 100}
	rec := &fakeRecognizer{text: "  open   chrome "}
	ear, sp := newTestEar(t, mic, rec)

	out := ear.Listen(context.Background(), ms(5000), ms(10000))

	require.Equal(t, domain.OutcomeText, out.Kind)
	assert.Equal(t, "open chrome", out.Text)
	// 2 pre-roll + 5 speech + 3 trailing silent frames
	assert.Len(t, rec.last.Samples, 10*testFrame)
	assert.Equal(t, 16000, rec.last.SampleRate)
	assert.Empty(t, sp.said)
}

func TestEarTimeout(t *testing.T) {
	mic := &fakeMic{rate: 16000, tail: 50}
	rec := &fakeRecognizer{text: "never"}
	ear, _ := newTestEar(t, mic, rec)

	out := ear.Listen(context.Background(), ms(1000), ms(10000))

	assert.Equal(t, domain.OutcomeTimeout, out.Kind)
	assert.Zero(t, rec.calls)
	assert.Equal(t, calibrationFrames+10, mic.reads)
}

func TestEarPhraseLimit(t *testing.T) {
	mic := &fakeMic{rate: 16000, script: repeat(100, calibrationFrames), tail: 2000}
	rec := &fakeRecognizer{text: "long monologue"}
	ear, _ := newTestEar(t, mic, rec)

	out := ear.Listen(context.Background(), ms(1000), ms(1000))

	assert.Equal(t, domain.OutcomeText, out.Kind)
	assert.Len(t, rec.last.Samples, 10*testFrame)
}

func TestEarUnintelligible(t *testing.T) {
	mic := &fakeMic{rate: 16000, script: repeat(100, calibrationFrames), tail: 2000}
	rec := &fakeRecognizer{text: "  "}
	ear, sp := newTestEar(t, mic, rec)

	out := ear.Listen(context.Background(), ms(1000), ms(500))

	assert.Equal(t, domain.OutcomeUnintelligible, out.Kind)
	assert.Equal(t, []string{lines.Unintelligible()}, sp.said)
}

func TestEarNetworkError(t *testing.T) {
	mic := &fakeMic{rate: 16000, script: repeat(100, calibrationFrames), tail: 2000}
	rec := &fakeRecognizer{err: domain.NewFault(domain.FaultNetwork, "google stt", errBoom)}
	ear, sp := newTestEar(t, mic, rec)

	out := ear.Listen(context.Background(), ms(1000), ms(500))

	assert.Equal(t, domain.OutcomeNetworkError, out.Kind)
	assert.Equal(t, []string{lines.NetworkHiccup()}, sp.said)
}

func TestEarMicrophoneFault(t *testing.T) {
	mic := &fakeMic{rate: 16000, readErr: errBoom}
	rec := &fakeRecognizer{text: "x"}
	ear, sp := newTestEar(t, mic, rec)

	out := ear.Listen(context.Background(), ms(1000), ms(500))

	assert.Equal(t, domain.OutcomeTimeout, out.Kind)
	assert.Zero(t, rec.calls)
	assert.Empty(t, sp.said)
}

func TestEarCancelled(t *testing.T) {
	mic := &fakeMic{rate: 16000, tail: 50}
	ear, _ := newTestEar(t, mic, &fakeRecognizer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := ear.Listen(ctx, 0, 0)
	assert.Equal(t, domain.OutcomeTimeout, out.Kind)
}

func TestEarDumpWritesWAV(t *testing.T) {
	dir := t.TempDir()
	mic := &fakeMic{rate: 16000, script: repeat(100, calibrationFrames), tail: 2000}
	ear, _ := newTestEar(t, mic, &fakeRecognizer{text: "hi"}, WithDumpDir(dir))

	ear.Listen(context.Background(), ms(1000), ms(500))

	files, err := filepath.Glob(filepath.Join(dir, "capture-*.wav"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	clip, err := decodeWAV(data)
	require.NoError(t, err)
	assert.Equal(t, 16000, clip.SampleRate)
	assert.Len(t, clip.Samples, 5*testFrame)
	assert.Equal(t, int16(2000), clip.Samples[0])
}
