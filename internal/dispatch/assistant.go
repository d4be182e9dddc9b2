// Package dispatch runs FRIDAY's listen, route and speak loop. Each
// utterance passes the wake-word filter and the global commands, then
// the stage cascade: the first stage that handles it wins.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger"
)

const (
	DefaultCooldown      = 200 * time.Millisecond
	DefaultRecoveryPause = 500 * time.Millisecond
	DefaultListenTimeout = 7 * time.Second
	DefaultPhraseLimit   = 10 * time.Second

	farewellTimeout = 10 * time.Second
)

// Option configures the Assistant.
type Option func(*Assistant)

// WithWakeWord sets the activation word. It is matched lowercase.
func WithWakeWord(w string) Option {
	return func(a *Assistant) { a.wakeWord = strings.ToLower(strings.TrimSpace(w)) }
}

// WithContinuous turns the wake-word filter off (true) or on (false).
func WithContinuous(on bool) Option {
	return func(a *Assistant) { a.continuous = on }
}

// WithListenLimits sets the capture timeout and phrase limit.
func WithListenLimits(timeout, phraseLimit time.Duration) Option {
	return func(a *Assistant) {
		a.listenTimeout = timeout
		a.phraseLimit = phraseLimit
	}
}

// WithPacing sets the cooldown between turns and the pause after a
// recovered fault.
func WithPacing(cooldown, recovery time.Duration) Option {
	return func(a *Assistant) {
		a.cooldown = cooldown
		a.recoveryPause = recovery
	}
}

// WithStatus sets the status-report collaborator.
func WithStatus(s domain.StatusReporter) Option {
	return func(a *Assistant) { a.status = s }
}

// WithApology registers the phrase spoken when the named stage faults.
func WithApology(stage string, say func() string) Option {
	return func(a *Assistant) { a.apologies[stage] = say }
}

// WithHeard registers a callback for every accepted utterance.
func WithHeard(fn func(text string)) Option {
	return func(a *Assistant) { a.heard = fn }
}

// WithHint registers a callback for unspoken progress hints.
func WithHint(fn func(text string)) Option {
	return func(a *Assistant) { a.hint = fn }
}

// Assistant owns the dispatch loop. It is not safe for concurrent use;
// Run is meant to be called once.
type Assistant struct {
	listener domain.Listener
	speaker  domain.Speaker
	stages   []domain.Stage
	status   domain.StatusReporter
	commands *CommandParser
	log      *logger.Logger

	wakeWord      string
	continuous    bool
	listenTimeout time.Duration
	phraseLimit   time.Duration
	cooldown      time.Duration
	recoveryPause time.Duration
	apologies     map[string]func() string
	heard         func(string)
	hint          func(string)
}

// New creates an Assistant. Stages are tried in the given order.
func New(listener domain.Listener, speaker domain.Speaker, stages []domain.Stage, log *logger.Logger, opts ...Option) *Assistant {
	a := &Assistant{
		listener:      listener,
		speaker:       speaker,
		stages:        stages,
		log:           log,
		wakeWord:      "friday",
		continuous:    true,
		listenTimeout: DefaultListenTimeout,
		phraseLimit:   DefaultPhraseLimit,
		cooldown:      DefaultCooldown,
		recoveryPause: DefaultRecoveryPause,
		apologies: map[string]func() string{
			"system": lines.SystemFault,
			"web":    lines.WebFault,
			"brain":  lines.BrainFault,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.commands = NewCommandParser(a.wakeWord)
	return a
}

// turn is the result of one loop iteration.
type turn int

const (
	turnContinue turn = iota
	turnStop
)

// Run loops until an exit phrase, the end of input, or ctx is cancelled.
func (a *Assistant) Run(ctx context.Context) error {
	a.log.Info("dispatch: loop started (wake=%q continuous=%v stages=%d)", a.wakeWord, a.continuous, len(a.stages))
	for {
		if ctx.Err() != nil {
			a.interrupted()
			return nil
		}
		if a.iterate(ctx) == turnStop {
			return nil
		}
	}
}

// iterate runs one turn. A panic is recovered, announced, and followed
// by a short pause before the loop resumes.
func (a *Assistant) iterate(ctx context.Context) (t turn) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("dispatch: recovered from panic: %v", r)
			a.speaker.Say(ctx, lines.LoopRecovery())
			sleep(ctx, a.recoveryPause)
			t = turnContinue
		}
	}()

	t = a.listenOnce(ctx)
	if t == turnContinue {
		// Silent outcomes pace the loop too, so a failing device cannot spin it.
		sleep(ctx, a.cooldown)
	}
	return t
}

// listenOnce listens once and routes what was heard.
func (a *Assistant) listenOnce(ctx context.Context) turn {
	outcome := a.listener.Listen(ctx, a.listenTimeout, a.phraseLimit)
	if ctx.Err() != nil {
		return turnContinue
	}
	switch outcome.Kind {
	case domain.OutcomeClosed:
		a.log.Info("dispatch: input closed")
		a.speaker.Say(ctx, lines.Farewell())
		return turnStop
	case domain.OutcomeText:
	default:
		a.log.Debug("dispatch: %s, listening again", outcome.Kind)
		return turnContinue
	}
	if !outcome.HasText() {
		return turnContinue
	}
	return a.handle(ctx, domain.NewUtterance(outcome.Text))
}

// handle routes one recognised utterance.
func (a *Assistant) handle(ctx context.Context, u domain.Utterance) turn {
	if !a.continuous && !strings.Contains(u.Normalized, a.wakeWord) {
		a.log.Debug("dispatch: [%s] no wake word, ignored", u.ShortID())
		return turnContinue
	}

	full := u.Normalized
	if rest, ok := stripWakeWord(u.Raw, u.Normalized, a.wakeWord); ok {
		u = u.WithText(rest)
	}
	if a.heard != nil {
		a.heard(u.Raw)
	}
	a.log.Info("dispatch: [%s] heard %q", u.ShortID(), u.Raw)

	switch a.commands.Parse(full, u.Normalized) {
	case CommandExit:
		a.log.Info("dispatch: [%s] exit requested", u.ShortID())
		a.speaker.Say(ctx, lines.Farewell())
		return turnStop
	case CommandStatus:
		a.reportStatus(ctx)
		return turnContinue
	}

	if u.Normalized == "" {
		a.speaker.Say(ctx, lines.Awaiting())
		return turnContinue
	}

	if a.hint != nil {
		a.hint(lines.Thinking())
	}
	a.cascade(ctx, u)
	return turnContinue
}

func (a *Assistant) reportStatus(ctx context.Context) {
	if a.status == nil {
		a.speaker.Say(ctx, lines.StatusFault())
		return
	}
	report, err := a.status.Report(ctx)
	if err != nil || strings.TrimSpace(report) == "" {
		a.log.Warn("dispatch: status report: %v", err)
		a.speaker.Say(ctx, lines.StatusFault())
		return
	}
	a.speaker.Say(ctx, report)
}

// cascade offers u to each stage in order and stops at the first that
// handles it. A faulting stage is apologised for and skipped.
func (a *Assistant) cascade(ctx context.Context, u domain.Utterance) {
	for _, stage := range a.stages {
		res, err := a.resolve(ctx, stage, u)
		if err != nil {
			a.log.Error("dispatch: [%s] %s stage fault: %v", u.ShortID(), stage.Name(), err)
			a.speaker.Say(ctx, a.apology(stage.Name()))
			continue
		}
		if res == domain.Handled {
			a.log.Debug("dispatch: [%s] handled by %s", u.ShortID(), stage.Name())
			return
		}
	}
	a.log.Warn("dispatch: [%s] no stage handled %q", u.ShortID(), u.Raw)
	a.speaker.Say(ctx, lines.NothingToSay())
}

// resolve calls the stage and turns a panic into an error.
func (a *Assistant) resolve(ctx context.Context, stage domain.Stage, u domain.Utterance) (res domain.DispatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = domain.NotHandled, fmt.Errorf("panic: %v", r)
		}
	}()
	return stage.Resolve(ctx, u)
}

func (a *Assistant) apology(stage string) string {
	if say, ok := a.apologies[stage]; ok {
		return say()
	}
	return lines.LoopRecovery()
}

// interrupted speaks the interrupt farewell on a fresh context, since
// the loop's own context is already done.
func (a *Assistant) interrupted() {
	a.log.Info("dispatch: interrupted")
	ctx, cancel := context.WithTimeout(context.Background(), farewellTimeout)
	defer cancel()
	a.speaker.Say(ctx, lines.Interrupted())
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
