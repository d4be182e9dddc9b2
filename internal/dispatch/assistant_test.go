package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger/loggertest"
)

// scriptListener replays outcomes, then reports the input closed.
type scriptListener struct {
	outcomes []domain.RecognitionOutcome
	calls    int
	onListen func(call int)
}

func (s *scriptListener) Listen(_ context.Context, _, _ time.Duration) domain.RecognitionOutcome {
	s.calls++
	if s.onListen != nil {
		s.onListen(s.calls)
	}
	if len(s.outcomes) == 0 {
		return domain.Outcome(domain.OutcomeClosed)
	}
	o := s.outcomes[0]
	s.outcomes = s.outcomes[1:]
	return o
}

func texts(ts ...string) []domain.RecognitionOutcome {
	out := make([]domain.RecognitionOutcome, len(ts))
	for i, t := range ts {
		out[i] = domain.TextOutcome(t)
	}
	return out
}

type recordingSpeaker struct{ said []string }

func (r *recordingSpeaker) Say(_ context.Context, text string) { r.said = append(r.said, text) }

type fakeStage struct {
	name    string
	result  domain.DispatchResult
	err     error
	panics  bool
	seen    []string
	speaker *recordingSpeaker
	reply   string
}

func (f *fakeStage) Name() string { return f.name }

func (f *fakeStage) Resolve(ctx context.Context, u domain.Utterance) (domain.DispatchResult, error) {
	f.seen = append(f.seen, u.Raw)
	if f.panics {
		panic("stage exploded")
	}
	if f.result == domain.Handled && f.speaker != nil && f.reply != "" {
		f.speaker.Say(ctx, f.reply)
	}
	return f.result, f.err
}

type fakeStatus struct {
	report string
	err    error
	calls  int
}

func (f *fakeStatus) Report(context.Context) (string, error) {
	f.calls++
	return f.report, f.err
}

type rig struct {
	spk    *recordingSpeaker
	system *fakeStage
	web    *fakeStage
	brain  *fakeStage
	status *fakeStatus
}

func newRig() *rig {
	spk := &recordingSpeaker{}
	return &rig{
		spk:    spk,
		system: &fakeStage{name: "system"},
		web:    &fakeStage{name: "web"},
		brain:  &fakeStage{name: "brain", result: domain.Handled, speaker: spk, reply: "brain reply"},
		status: &fakeStatus{report: "All systems nominal."},
	}
}

func (r *rig) run(t *testing.T, l domain.Listener, opts ...Option) {
	t.Helper()
	opts = append([]Option{WithPacing(0, 0), WithStatus(r.status)}, opts...)
	a := New(l, r.spk, []domain.Stage{r.system, r.web, r.brain}, loggertest.New(t), opts...)
	require.NoError(t, a.Run(context.Background()))
}

func TestRun_WakeWordDiscardsWithoutResolvers(t *testing.T) {
	r := newRig()
	r.run(t, &scriptListener{outcomes: texts("open chrome", "what's the weather")}, WithContinuous(false))

	assert.Empty(t, r.system.seen)
	assert.Empty(t, r.web.seen)
	assert.Empty(t, r.brain.seen)
	assert.Equal(t, []string{lines.Farewell()}, r.spk.said)
}

func TestRun_FridayOpenChromeStopsAtSystem(t *testing.T) {
	r := newRig()
	r.system.result = domain.Handled
	r.system.speaker, r.system.reply = r.spk, "Launching Chrome."

	r.run(t, &scriptListener{outcomes: texts("Friday, open chrome")}, WithContinuous(false))

	assert.Equal(t, []string{"open chrome"}, r.system.seen)
	assert.Empty(t, r.web.seen)
	assert.Empty(t, r.brain.seen)
	assert.Equal(t, "Launching Chrome.", r.spk.said[0])
}

func TestRun_SingleWinnerCascade(t *testing.T) {
	r := newRig()
	r.web.result = domain.Handled
	r.web.speaker, r.web.reply = r.spk, "web answer"

	r.run(t, &scriptListener{outcomes: texts("who wrote hamlet")})

	assert.Equal(t, []string{"who wrote hamlet"}, r.system.seen)
	assert.Equal(t, []string{"who wrote hamlet"}, r.web.seen)
	assert.Empty(t, r.brain.seen)
	assert.Equal(t, []string{"web answer", lines.Farewell()}, r.spk.said)
}

func TestRun_FallsThroughToBrain(t *testing.T) {
	r := newRig()
	r.run(t, &scriptListener{outcomes: texts("tell me a joke")})

	assert.Equal(t, []string{"tell me a joke"}, r.brain.seen)
	assert.Equal(t, []string{"brain reply", lines.Farewell()}, r.spk.said)
}

func TestRun_StageFaultApologisesAndContinues(t *testing.T) {
	r := newRig()
	r.system.err = errors.New("boom")
	r.web.panics = true

	r.run(t, &scriptListener{outcomes: texts("do something")})

	assert.Equal(t, []string{"do something"}, r.brain.seen)
	assert.Equal(t, []string{lines.SystemFault(), lines.WebFault(), "brain reply", lines.Farewell()}, r.spk.said)
}

func TestRun_ExitPhrases(t *testing.T) {
	for _, phrase := range []string{"exit", "Quit.", "goodbye friday", "friday shutdown", "shutdown friday", "power down friday", "Friday, exit"} {
		t.Run(phrase, func(t *testing.T) {
			r := newRig()
			l := &scriptListener{outcomes: texts(phrase, "never heard")}
			r.run(t, l)

			assert.Equal(t, 1, l.calls)
			assert.Equal(t, []string{lines.Farewell()}, r.spk.said)
			assert.Empty(t, r.system.seen)
		})
	}
}

func TestRun_PowerPhraseIsNotExit(t *testing.T) {
	r := newRig()
	r.system.result = domain.Handled
	r.run(t, &scriptListener{outcomes: texts("friday shutdown system")})

	assert.Equal(t, []string{"shutdown system"}, r.system.seen)
}

func TestRun_StatusBypassesCascade(t *testing.T) {
	r := newRig()
	r.run(t, &scriptListener{outcomes: texts("status", "give me a status report")})

	assert.Equal(t, 2, r.status.calls)
	assert.Empty(t, r.system.seen)
	assert.Equal(t, []string{"All systems nominal.", "All systems nominal.", lines.Farewell()}, r.spk.said)
}

func TestRun_StatusFault(t *testing.T) {
	r := newRig()
	r.status.err = errors.New("weather down")
	r.run(t, &scriptListener{outcomes: texts("status report")})

	assert.Equal(t, []string{lines.StatusFault(), lines.Farewell()}, r.spk.said)
}

func TestRun_SilentOutcomesSkip(t *testing.T) {
	r := newRig()
	l := &scriptListener{outcomes: []domain.RecognitionOutcome{
		domain.Outcome(domain.OutcomeTimeout),
		domain.Outcome(domain.OutcomeUnintelligible),
		domain.Outcome(domain.OutcomeNetworkError),
		domain.TextOutcome("hello"),
	}}
	r.run(t, l)

	assert.Equal(t, 5, l.calls)
	assert.Equal(t, []string{"hello"}, r.brain.seen)
}

func TestRun_WakeWordAlonePrompts(t *testing.T) {
	r := newRig()
	r.run(t, &scriptListener{outcomes: texts("Friday!")}, WithContinuous(false))

	assert.Empty(t, r.system.seen)
	assert.Equal(t, []string{lines.Awaiting(), lines.Farewell()}, r.spk.said)
}

func TestRun_ContextCancelSpeaksInterrupt(t *testing.T) {
	r := newRig()
	ctx, cancel := context.WithCancel(context.Background())
	l := &scriptListener{
		outcomes: texts("hello", "hello", "hello"),
		onListen: func(call int) {
			if call == 2 {
				cancel()
			}
		},
	}
	a := New(l, r.spk, []domain.Stage{r.brain}, loggertest.New(t), WithPacing(0, 0))

	require.NoError(t, a.Run(ctx))

	assert.Equal(t, 2, l.calls)
	assert.Equal(t, []string{"brain reply", lines.Interrupted()}, r.spk.said)
}

// panicListener panics once, then closes.
type panicListener struct{ calls int }

func (p *panicListener) Listen(context.Context, time.Duration, time.Duration) domain.RecognitionOutcome {
	p.calls++
	if p.calls == 1 {
		panic("mic on fire")
	}
	return domain.Outcome(domain.OutcomeClosed)
}

func TestRun_RecoversLoopPanic(t *testing.T) {
	r := newRig()
	l := &panicListener{}
	r.run(t, l)

	assert.Equal(t, 2, l.calls)
	assert.Equal(t, []string{lines.LoopRecovery(), lines.Farewell()}, r.spk.said)
}

func TestRun_HeardCallback(t *testing.T) {
	r := newRig()
	var heard []string
	r.run(t, &scriptListener{outcomes: texts("friday what time is it")}, WithContinuous(false), WithHeard(func(s string) {
		heard = append(heard, s)
	}))

	assert.Equal(t, []string{"what time is it"}, heard)
}

// deadMic reports a timeout at once, like an Ear whose device failed.
type deadMic struct{ calls int }

func (d *deadMic) Listen(context.Context, time.Duration, time.Duration) domain.RecognitionOutcome {
	d.calls++
	return domain.Outcome(domain.OutcomeTimeout)
}

func TestRun_CooldownPacesSilentOutcomes(t *testing.T) {
	r := newRig()
	l := &deadMic{}
	a := New(l, r.spk, []domain.Stage{r.brain}, loggertest.New(t), WithPacing(50*time.Millisecond, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, a.Run(ctx))

	assert.LessOrEqual(t, l.calls, 6, "each silent turn waits out the cooldown")
	assert.GreaterOrEqual(t, l.calls, 2)
	assert.Equal(t, []string{lines.Interrupted()}, r.spk.said)
}
