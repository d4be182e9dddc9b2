package brain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/gpt"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger/loggertest"
)

type fakeBackend struct {
	name  string
	reply string
	err   error
	calls int
	seen  []domain.Exchange
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Complete(_ context.Context, history []domain.Exchange) (string, error) {
	f.calls++
	f.seen = history
	return f.reply, f.err
}

type recordingSpeaker struct{ said []string }

func (r *recordingSpeaker) Say(_ context.Context, text string) { r.said = append(r.said, text) }

func TestAnswer_OfflineWithoutBackends(t *testing.T) {
	b := New(nil, loggertest.New(t))

	reply := b.Answer(context.Background(), "tell me a joke")

	assert.Equal(t, lines.OfflineDefault(), reply)
	assert.Equal(t, "offline", b.LastSource())
	mem := b.Memory()
	require.Len(t, mem, 3)
	assert.Equal(t, domain.Exchange{Role: domain.RoleUser, Content: "tell me a joke"}, mem[1])
	assert.Equal(t, domain.Exchange{Role: domain.RoleAssistant, Content: lines.OfflineDefault()}, mem[2])
}

func TestAnswer_FallsThroughFailingBackend(t *testing.T) {
	bad := &fakeBackend{name: "bad", err: errors.New("boom")}
	good := &fakeBackend{name: "good", reply: "  Forty two, Boss.  "}
	never := &fakeBackend{name: "never", reply: "unused"}
	b := New([]gpt.Backend{bad, nil, good, never}, loggertest.New(t))

	reply := b.Answer(context.Background(), "meaning of life")

	assert.Equal(t, "Forty two, Boss.", reply)
	assert.Equal(t, "good", b.LastSource())
	assert.Equal(t, 1, bad.calls)
	assert.Equal(t, 1, good.calls)
	assert.Zero(t, never.calls)

	require.Len(t, good.seen, 2)
	assert.Equal(t, domain.RoleSystem, good.seen[0].Role)
	assert.Equal(t, gpt.PromptPersona, good.seen[0].Content)
	assert.Equal(t, "meaning of life", good.seen[1].Content)
}

func TestAnswer_PersonaAddressesConfiguredUser(t *testing.T) {
	be := &fakeBackend{name: "be", reply: "ok"}
	b := New([]gpt.Backend{be}, loggertest.New(t), WithUserName("Tony"))

	b.Answer(context.Background(), "hi")

	require.NotEmpty(t, be.seen)
	assert.Contains(t, be.seen[0].Content, "Address the user as 'Tony'.")
	assert.NotContains(t, be.seen[0].Content, "Boss")
}

func TestAnswer_EmptyReplyUsesOffline(t *testing.T) {
	blank := &fakeBackend{name: "blank", reply: "   "}
	b := New([]gpt.Backend{blank}, loggertest.New(t))

	assert.Equal(t, lines.OfflineGreeting(), b.Answer(context.Background(), "hello there"))
}

func TestAnswer_HistoryCarriesPriorExchanges(t *testing.T) {
	be := &fakeBackend{name: "be", reply: "ok"}
	b := New([]gpt.Backend{be}, loggertest.New(t), WithPairs(1))

	b.Answer(context.Background(), "first")
	b.Answer(context.Background(), "second")
	require.Len(t, be.seen, 4)
	assert.Equal(t, "first", be.seen[1].Content)
	assert.Equal(t, "second", be.seen[3].Content)

	b.Answer(context.Background(), "third")
	assert.Len(t, b.Memory(), 3)
	assert.Equal(t, "third", b.Memory()[1].Content)
}

func TestResolve_SpeaksAndClaims(t *testing.T) {
	spk := &recordingSpeaker{}
	b := New(nil, loggertest.New(t), WithSpeaker(spk))

	res, err := b.Resolve(context.Background(), domain.NewUtterance("Who are you?"))

	require.NoError(t, err)
	assert.Equal(t, domain.Handled, res)
	assert.Equal(t, []string{lines.OfflineIdentity()}, spk.said)
}

func TestOffline_Table(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"How are you doing?", lines.OfflineWellbeing()},
		{"who are you", lines.OfflineIdentity()},
		{"Hi", lines.OfflineGreeting()},
		{"hello friday", lines.OfflineGreeting()},
		{"this is high time", lines.OfflineDefault()},
		{"tell me a joke", lines.OfflineDefault()},
		{"hi, how are you", lines.OfflineWellbeing()},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			assert.Equal(t, tt.want, Offline(tt.prompt))
		})
	}
}
