package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// Provider is one speech output backend. Available is checked before
// every call so credentials and devices are re-evaluated each time.
type Provider interface {
	Name() string
	Available() error
	Speak(ctx context.Context, text string) error
}

// Synthesizer turns text into audio. Cloud TTS clients implement it.
type Synthesizer interface {
	Name() string
	Voice() string
	Available() error
	Synthesize(ctx context.Context, text string) (PCM, error)
}

// AudioSink plays PCM synchronously.
type AudioSink interface {
	Play(ctx context.Context, clip PCM) error
}

// AudioProviderOption configures an AudioProvider.
type AudioProviderOption func(*AudioProvider)

// WithSpeed sets the playback tempo applied after synthesis.
func WithSpeed(speed float64) AudioProviderOption {
	return func(p *AudioProvider) { p.speed = speed }
}

// WithChunkSize sets the approximate max character count per synthesis
// request. Longer text is split at sentence boundaries and synthesized
// in parallel.
func WithChunkSize(n int) AudioProviderOption {
	return func(p *AudioProvider) { p.chunkSize = n }
}

// WithCache shares an audio cache between providers.
func WithCache(c *AudioCache) AudioProviderOption {
	return func(p *AudioProvider) { p.cache = c }
}

// AudioProvider adapts a Synthesizer and a sink into a Provider:
// chunk -> synthesize (parallel, cached) -> tempo -> play.
type AudioProvider struct {
	synth     Synthesizer
	sink      AudioSink
	cache     *AudioCache
	speed     float64
	chunkSize int
	log       *logger.Logger
}

// Compile-time interface check.
var _ Provider = (*AudioProvider)(nil)

// NewAudioProvider wires a synthesizer to a sink. A nil sink makes the
// provider permanently unavailable.
func NewAudioProvider(synth Synthesizer, sink AudioSink, log *logger.Logger, opts ...AudioProviderOption) *AudioProvider {
	p := &AudioProvider{
		synth:     synth,
		sink:      sink,
		speed:     1.0,
		chunkSize: 400,
		log:       log,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = NewAudioCache(log)
	}
	return p
}

func (p *AudioProvider) Name() string { return p.synth.Name() }

func (p *AudioProvider) Available() error {
	if p.sink == nil {
		return domain.Unavailable(p.synth.Name(), "no audio output device")
	}
	return p.synth.Available()
}

// Speak synthesizes every chunk before playing any of them, so a failed
// chunk leaves nothing half-spoken and the caller can fall through.
func (p *AudioProvider) Speak(ctx context.Context, text string) error {
	chunks := splitChunks(text, p.chunkSize)
	if len(chunks) == 0 {
		return nil
	}

	type result struct {
		idx  int
		clip PCM
		err  error
	}
	results := make(chan result, len(chunks))
	for i, chunk := range chunks {
		go func(idx int, text string) {
			clip, err := p.synthesizeWithCache(ctx, text)
			results <- result{idx: idx, clip: clip, err: err}
		}(i, chunk)
	}

	clips := make([]PCM, len(chunks))
	var firstErr error
	for range chunks {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("chunk %d: %w", r.idx, r.err)
		}
		clips[r.idx] = r.clip
	}
	if firstErr != nil {
		return firstErr
	}

	clip := Concat(clips...)
	if p.speed != 1 {
		fast, err := Tempo(clip, p.speed)
		if err != nil {
			p.log.Warn("%s: tempo %.2f failed, playing at normal speed: %v", p.Name(), p.speed, err)
		} else {
			clip = fast
		}
	}

	if err := p.sink.Play(ctx, clip); err != nil {
		return domain.NewFault(domain.FaultDevice, p.Name()+" playback", err)
	}
	return nil
}

func (p *AudioProvider) synthesizeWithCache(ctx context.Context, text string) (PCM, error) {
	ns := p.synth.Name() + "/" + p.synth.Voice()
	if clip, ok := p.cache.Get(ns, text); ok {
		return clip, nil
	}
	clip, err := p.synth.Synthesize(ctx, text)
	if err != nil {
		return PCM{}, err
	}
	if len(clip.Samples) == 0 {
		return PCM{}, domain.NewFault(domain.FaultService, p.Name(), domain.ErrNoResult)
	}
	p.cache.Put(ns, text, clip)
	return clip, nil
}

// orderProviders moves the pinned provider to the front.
func orderProviders(providers []Provider, pinned string) []Provider {
	pinned = strings.ToLower(strings.TrimSpace(pinned))
	if pinned == "" {
		return providers
	}
	out := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.Name() == pinned {
			out = append(out, p)
		}
	}
	for _, p := range providers {
		if p.Name() != pinned {
			out = append(out, p)
		}
	}
	return out
}
