package domain

import (
	"context"
	"time"
)

// Listener produces one recognition outcome per call. Implementations
// can capture from a microphone or read typed lines.
type Listener interface {
	Listen(ctx context.Context, timeout, phraseLimit time.Duration) RecognitionOutcome
}

// Speaker voices a message. Say blocks until the message has been
// played or echoed and never fails.
type Speaker interface {
	Say(ctx context.Context, text string)
}

// Stage is one step of the dispatch cascade. A non-nil error is a fault:
// the loop apologises for the stage and treats it as NotHandled.
type Stage interface {
	Name() string
	Resolve(ctx context.Context, u Utterance) (DispatchResult, error)
}

// StatusReporter compiles the spoken status summary.
type StatusReporter interface {
	Report(ctx context.Context) (string, error)
}

// Answerer produces a conversational reply. It never fails.
type Answerer interface {
	Answer(ctx context.Context, prompt string) string
}
