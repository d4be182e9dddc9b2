package speech

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger"
)

// Microphone delivers fixed-size frames of mono 16-bit audio. Start and
// Stop bracket each capture so the device buffer does not overrun while
// the assistant is busy speaking.
type Microphone interface {
	Start() error
	Read(frame []int16) error
	Stop() error
	SampleRate() int
}

// Recognizer turns captured audio into text. An empty string with a nil
// error means the audio was not understood.
type Recognizer interface {
	Recognize(ctx context.Context, clip PCM) (string, error)
}

var errNoSpeech = errors.New("no speech before timeout")

// Ambient calibration parameters.
const (
	calibrationWindow = 600 * time.Millisecond
	ambientMultiplier = 1.5
	preRollFrames     = 3
)

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithEnergyThreshold sets the minimum speech energy (RMS). Calibration
// can only raise it.
func WithEnergyThreshold(rms float64) EarOption {
	return func(e *Ear) { e.threshold = rms }
}

// WithPauseThreshold sets how much trailing silence ends a phrase.
func WithPauseThreshold(d time.Duration) EarOption {
	return func(e *Ear) { e.pause = d }
}

// WithPrompter sets who speaks the re-prompts after failed recognition.
func WithPrompter(s domain.Speaker) EarOption {
	return func(e *Ear) { e.prompter = s }
}

// WithFrameSize sets the samples per microphone read.
func WithFrameSize(n int) EarOption {
	return func(e *Ear) { e.frameSize = n }
}

// WithDumpDir writes every captured phrase to dir as a WAV file.
func WithDumpDir(dir string) EarOption {
	return func(e *Ear) { e.dumpDir = dir }
}

// Ear is the speech input channel. One Listen call captures one phrase
// and recognizes it. Capture is exclusive: concurrent Listen calls wait.
type Ear struct {
	mic       Microphone
	rec       Recognizer
	prompter  domain.Speaker
	log       *logger.Logger
	threshold float64
	pause     time.Duration
	frameSize int
	dumpDir   string

	mu sync.Mutex
}

// Compile-time interface check.
var _ domain.Listener = (*Ear)(nil)

// NewEar creates the listener and calibrates against ambient noise once.
func NewEar(mic Microphone, rec Recognizer, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		mic:       mic,
		rec:       rec,
		log:       log,
		threshold: 300,
		pause:     800 * time.Millisecond,
		frameSize: CaptureFrame,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.calibrate()
	return e
}

// Threshold returns the active energy threshold.
func (e *Ear) Threshold() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.threshold
}

func (e *Ear) calibrate() {
	if err := e.mic.Start(); err != nil {
		e.log.Warn("ear: calibration skipped, microphone start failed: %v", err)
		return
	}
	defer e.mic.Stop()

	frame := make([]int16, e.frameSize)
	frames := int(math.Ceil(calibrationWindow.Seconds() * float64(e.mic.SampleRate()) / float64(e.frameSize)))
	var total float64
	read := 0
	for i := 0; i < frames; i++ {
		if err := e.mic.Read(frame); err != nil {
			e.log.Warn("ear: calibration read failed: %v", err)
			break
		}
		total += rms(frame)
		read++
	}
	if read == 0 {
		return
	}
	ambient := total / float64(read)
	if scaled := ambient * ambientMultiplier; scaled > e.threshold {
		e.threshold = scaled
	}
	e.log.Info("ear: ambient rms %.0f, energy threshold %.0f", ambient, e.threshold)
}

// Listen waits up to timeout for speech to start, records until a pause
// or phraseLimit, and recognizes the phrase.
func (e *Ear) Listen(ctx context.Context, timeout, phraseLimit time.Duration) domain.RecognitionOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	clip, err := e.capture(ctx, timeout, phraseLimit)
	if err != nil {
		if !errors.Is(err, errNoSpeech) && ctx.Err() == nil {
			e.log.Error("ear: capture failed: %v", err)
		}
		return domain.Outcome(domain.OutcomeTimeout)
	}
	e.log.Debug("ear: captured %.1fs of audio", clip.Duration())
	e.dump(clip)

	text, err := e.rec.Recognize(ctx, clip)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Outcome(domain.OutcomeTimeout)
		}
		e.log.Warn("ear: recognition failed: %v", err)
		e.prompt(ctx, lines.NetworkHiccup())
		return domain.Outcome(domain.OutcomeNetworkError)
	}

	text = cleanTranscription(text)
	if text == "" {
		e.prompt(ctx, lines.Unintelligible())
		return domain.Outcome(domain.OutcomeUnintelligible)
	}
	e.log.Info("ear: heard %q", text)
	return domain.TextOutcome(text)
}

// capture runs one energy-gated recording. Time is measured in captured
// audio, not wall clock, so a slow device cannot cut a phrase short.
func (e *Ear) capture(ctx context.Context, timeout, phraseLimit time.Duration) (PCM, error) {
	if err := e.mic.Start(); err != nil {
		return PCM{}, fmt.Errorf("microphone start: %w", err)
	}
	defer e.mic.Stop()

	rate := e.mic.SampleRate()
	frameDur := time.Duration(float64(e.frameSize) / float64(rate) * float64(time.Second))
	var (
		waited  time.Duration
		spoken  time.Duration
		silence time.Duration
		started bool
		preRoll [][]int16
		samples []int16
	)

	for {
		if err := ctx.Err(); err != nil {
			return PCM{}, err
		}
		frame := make([]int16, e.frameSize)
		if err := e.mic.Read(frame); err != nil {
			return PCM{}, fmt.Errorf("microphone read: %w", err)
		}
		loud := rms(frame) >= e.threshold

		if !started {
			if !loud {
				waited += frameDur
				if timeout > 0 && waited >= timeout {
					return PCM{}, errNoSpeech
				}
				preRoll = append(preRoll, frame)
				if len(preRoll) > preRollFrames {
					preRoll = preRoll[1:]
				}
				continue
			}
			started = true
			for _, f := range preRoll {
				samples = append(samples, f...)
			}
		}

		samples = append(samples, frame...)
		spoken += frameDur
		if loud {
			silence = 0
		} else {
			silence += frameDur
		}
		if silence >= e.pause || (phraseLimit > 0 && spoken >= phraseLimit) {
			return PCM{Samples: samples, SampleRate: rate}, nil
		}
	}
}

func (e *Ear) prompt(ctx context.Context, text string) {
	if e.prompter != nil {
		e.prompter.Say(ctx, text)
	}
}

func (e *Ear) dump(clip PCM) {
	if e.dumpDir == "" {
		return
	}
	path := filepath.Join(e.dumpDir, fmt.Sprintf("capture-%s.wav", time.Now().Format("20060102-150405.000")))
	if err := WriteWAV(path, clip); err != nil {
		e.log.Warn("ear: dump failed: %v", err)
		return
	}
	e.log.Debug("ear: wrote %s", path)
}

// WriteWAV saves a clip as a 16-bit mono WAV file.
func WriteWAV(path string, clip PCM) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, clip.SampleRate, BitDepth, 1, 1)
	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav: %w", err)
	}
	return enc.Close()
}

// rms is the root-mean-square amplitude of a frame.
func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// cleanTranscription collapses whitespace and drops bracketed noise
// annotations some recognizers emit.
func cleanTranscription(s string) string {
	s = envAnnotation.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}
