// Package brain is FRIDAY's generative fallback. It keeps a bounded
// conversation memory, asks each configured chat backend in turn, and
// answers from a small offline table when none of them reply.
package brain

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/gpt"
	"github.com/hammamikhairi/friday/internal/logger"
)

// DefaultPairs is the number of remembered (user, assistant) exchanges.
const DefaultPairs = 15

// Option configures a Brain.
type Option func(*Brain)

// WithPairs sets how many exchanges the memory keeps.
func WithPairs(n int) Option {
	return func(b *Brain) { b.pairs = n }
}

// WithBackendTimeout bounds each backend call.
func WithBackendTimeout(d time.Duration) Option {
	return func(b *Brain) { b.timeout = d }
}

// WithSpeaker sets where Resolve voices its reply.
func WithSpeaker(s domain.Speaker) Option {
	return func(b *Brain) { b.speaker = s }
}

// WithUserName sets the name the persona prompt addresses.
func WithUserName(name string) Option {
	return func(b *Brain) { b.persona = gpt.Persona(name) }
}

// Brain answers free-form prompts.
type Brain struct {
	mu       sync.Mutex
	backends []gpt.Backend
	memory   *Memory
	persona  string
	pairs    int
	timeout  time.Duration
	speaker  domain.Speaker
	log      *logger.Logger
	last     string
}

// Compile-time interface checks.
var (
	_ domain.Answerer = (*Brain)(nil)
	_ domain.Stage    = (*Brain)(nil)
)

// New creates a Brain. Backends are tried in the given order; nil
// entries are skipped so callers can pass unconfigured ones directly.
func New(backends []gpt.Backend, log *logger.Logger, opts ...Option) *Brain {
	b := &Brain{
		persona: gpt.PromptPersona,
		pairs:   DefaultPairs,
		timeout: 20 * time.Second,
		log:     log,
	}
	for _, o := range opts {
		o(b)
	}
	for _, be := range backends {
		if be != nil {
			b.backends = append(b.backends, be)
		}
	}
	b.memory = NewMemory(b.persona, b.pairs)
	return b
}

// Answer returns a reply for prompt and records the exchange. When
// every backend fails the offline table answers, so the reply is never
// empty.
func (b *Brain) Answer(ctx context.Context, prompt string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	history := append(b.memory.Messages(), domain.Exchange{Role: domain.RoleUser, Content: prompt})

	reply, source := "", "offline"
	for _, be := range b.backends {
		text, err := b.complete(ctx, be, history)
		if err != nil {
			b.log.Warn("brain: %s failed: %v", be.Name(), err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		reply, source = strings.TrimSpace(text), be.Name()
		break
	}
	if reply == "" {
		reply = Offline(prompt)
	}

	b.memory.Append(prompt, reply)
	b.last = source
	b.log.Debug("brain: answered via %s, memory %d/%d", source, b.memory.Len(), b.memory.Limit())
	return reply
}

func (b *Brain) complete(ctx context.Context, be gpt.Backend, history []domain.Exchange) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	return be.Complete(ctx, history)
}

func (b *Brain) Name() string { return "brain" }

// Resolve is the last stage of the cascade: it always speaks a reply
// and claims the utterance.
func (b *Brain) Resolve(ctx context.Context, u domain.Utterance) (domain.DispatchResult, error) {
	reply := b.Answer(ctx, u.Raw)
	if b.speaker != nil {
		b.speaker.Say(ctx, reply)
	}
	return domain.Handled, nil
}

// Memory returns a copy of the current history.
func (b *Brain) Memory() []domain.Exchange {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.memory.Messages()
}

// LastSource names the backend, or "offline", that produced the last reply.
func (b *Brain) LastSource() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}
