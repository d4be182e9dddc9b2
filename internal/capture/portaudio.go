// Package capture provides the PortAudio microphone used by the speech
// input channel. It is kept apart from package speech so that only the
// binary links against the native PortAudio library.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/hammamikhairi/friday/internal/logger"
)

// Mic reads mono 16-bit frames from the default input device.
type Mic struct {
	rate      int
	frameSize int
	log       *logger.Logger

	mu      sync.Mutex
	stream  *portaudio.Stream
	buf     []int16
	running bool
}

// Open initialises PortAudio and opens the default input stream. The
// stream is opened once; Start and Stop only toggle capture.
func Open(rate, frameSize int, log *logger.Logger) (*Mic, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	m := &Mic{
		rate:      rate,
		frameSize: frameSize,
		buf:       make([]int16, frameSize),
		log:       log,
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(rate), frameSize, m.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	m.stream = stream
	log.Info("microphone opened (rate=%d, frame=%d)", rate, frameSize)
	return m, nil
}

func (m *Mic) SampleRate() int { return m.rate }

func (m *Mic) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}
	if err := m.stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	m.running = true
	return nil
}

// Read fills frame with the next block of samples. frame must be the
// size given to Open.
func (m *Mic) Read(frame []int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return errors.New("stream not started")
	}
	if len(frame) != m.frameSize {
		return fmt.Errorf("frame size %d, stream expects %d", len(frame), m.frameSize)
	}
	if err := m.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return fmt.Errorf("read stream: %w", err)
	}
	copy(frame, m.buf)
	return nil
}

func (m *Mic) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}
	m.running = false
	return m.stream.Stop()
}

// Close releases the stream and PortAudio.
func (m *Mic) Close() error {
	_ = m.Stop()
	err := m.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	m.log.Debug("microphone closed")
	return err
}
