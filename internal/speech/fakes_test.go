package speech

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeMic plays back a script of frame levels, then repeats tail forever.
type fakeMic struct {
	mu       sync.Mutex
	script   []int16
	tail     int16
	rate     int
	reads    int
	starts   int
	stops    int
	startErr error
	readErr  error
}

func (m *fakeMic) SampleRate() int { return m.rate }

func (m *fakeMic) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	return m.startErr
}

func (m *fakeMic) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

func (m *fakeMic) Read(frame []int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return m.readErr
	}
	level := m.tail
	if len(m.script) > 0 {
		level, m.script = m.script[0], m.script[1:]
	}
	for i := range frame {
		if i%2 == 0 {
			frame[i] = level
		} else {
			frame[i] = -level
		}
	}
	m.reads++
	return nil
}

func repeat(level int16, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = level
	}
	return out
}

type fakeRecognizer struct {
	text  string
	err   error
	calls int
	last  PCM
}

func (r *fakeRecognizer) Recognize(_ context.Context, clip PCM) (string, error) {
	r.calls++
	r.last = clip
	return r.text, r.err
}

type recordingSpeaker struct {
	said []string
}

func (s *recordingSpeaker) Say(_ context.Context, text string) {
	s.said = append(s.said, text)
}

// fakeProvider is a scripted speech provider.
type fakeProvider struct {
	name     string
	unavail  error
	speakErr error
	spoken   []string
}

func (p *fakeProvider) Name() string     { return p.name }
func (p *fakeProvider) Available() error { return p.unavail }
func (p *fakeProvider) Speak(_ context.Context, text string) error {
	if p.speakErr != nil {
		return p.speakErr
	}
	p.spoken = append(p.spoken, text)
	return nil
}

// fakeSynth returns a fixed-length clip per request.
type fakeSynth struct {
	mu      sync.Mutex
	samples int
	err     error
	calls   int
}

func (s *fakeSynth) Name() string     { return "fake" }
func (s *fakeSynth) Voice() string    { return "v1" }
func (s *fakeSynth) Available() error { return nil }
func (s *fakeSynth) Synthesize(_ context.Context, _ string) (PCM, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return PCM{}, s.err
	}
	return PCM{Samples: repeat(1000, s.samples), SampleRate: SampleRate}, nil
}

type fakeSink struct {
	played []PCM
	err    error
}

func (s *fakeSink) Play(_ context.Context, clip PCM) error {
	if s.err != nil {
		return s.err
	}
	s.played = append(s.played, clip)
	return nil
}

var errBoom = errors.New("boom")

const testFrame = 1600 // 100 ms at 16 kHz

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
