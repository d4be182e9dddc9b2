package speech

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// PrintFunc shows the spoken text on the console.
type PrintFunc func(text string)

// MouthOption configures the Mouth.
type MouthOption func(*Mouth)

// WithPinnedProvider tries the named provider first on every call.
// Pinning ProviderEcho keeps the Mouth silent: text is only echoed.
func WithPinnedProvider(name string) MouthOption {
	return func(m *Mouth) { m.pinned = strings.ToLower(strings.TrimSpace(name)) }
}

// WithTranscript sets where the text echo goes. Defaults to nowhere.
func WithTranscript(fn PrintFunc) MouthOption {
	return func(m *Mouth) {
		if fn != nil {
			m.print = fn
		}
	}
}

// Mouth is the speech dispatcher. Say echoes the text, then walks the
// provider list (pinned provider first) and stops at the first one that
// speaks successfully. Unavailable or failing providers are skipped, and
// when none succeeds the echo alone stands. Calls are serialized so only
// one thing speaks at a time.
type Mouth struct {
	providers []Provider
	pinned    string
	print     PrintFunc
	log       *logger.Logger

	mu       sync.Mutex
	last     string // provider that served the last Say
	lastText string
}

// Compile-time interface check.
var _ domain.Speaker = (*Mouth)(nil)

// NewMouth creates a speech dispatcher over providers in priority order.
func NewMouth(providers []Provider, log *logger.Logger, opts ...MouthOption) *Mouth {
	m := &Mouth{
		providers: providers,
		print:     func(string) {},
		log:       log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Say voices text and returns when playback or echo has completed.
func (m *Mouth) Say(ctx context.Context, text string) {
	text = CleanForSpeech(text)
	if text == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.print(text)
	m.lastText = text

	if m.pinned == ProviderEcho {
		m.last = ProviderEcho
		return
	}

	for _, p := range orderProviders(m.providers, m.pinned) {
		if ctx.Err() != nil {
			m.last = ProviderEcho
			return
		}
		if err := p.Available(); err != nil {
			m.log.Debug("mouth: skipping %s: %v", p.Name(), err)
			continue
		}
		err := p.Speak(ctx, text)
		if err == nil {
			m.last = p.Name()
			m.log.Debug("mouth: spoke via %s: %s", p.Name(), truncate(text, 60))
			return
		}
		if errors.Is(err, context.Canceled) {
			m.last = ProviderEcho
			return
		}
		m.log.Warn("mouth: %s failed, trying next provider: %v", p.Name(), err)
	}

	m.last = ProviderEcho
	m.log.Debug("mouth: no audible provider, text echo only")
}

// LastProvider names the provider that served the most recent Say.
func (m *Mouth) LastProvider() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// LastSpoken returns the most recent text.
func (m *Mouth) LastSpoken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastText
}
