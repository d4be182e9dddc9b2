package domain

// OutcomeKind is the shape of one listening attempt.
type OutcomeKind int

const (
	// OutcomeText carries recognized text.
	OutcomeText OutcomeKind = iota
	// OutcomeTimeout means no speech started within the timeout.
	OutcomeTimeout
	// OutcomeUnintelligible means audio was captured but not understood.
	OutcomeUnintelligible
	// OutcomeNetworkError means the recognition service could not be reached.
	OutcomeNetworkError
	// OutcomeClosed means the input source is exhausted (typed input hit EOF).
	OutcomeClosed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeText:
		return "text"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeUnintelligible:
		return "unintelligible"
	case OutcomeNetworkError:
		return "network_error"
	case OutcomeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// RecognitionOutcome is the result of Listen. Only OutcomeText carries Text.
type RecognitionOutcome struct {
	Kind OutcomeKind
	Text string
}

// TextOutcome wraps recognized text.
func TextOutcome(text string) RecognitionOutcome {
	return RecognitionOutcome{Kind: OutcomeText, Text: text}
}

// Outcome builds a text-less outcome of the given kind.
func Outcome(kind OutcomeKind) RecognitionOutcome {
	return RecognitionOutcome{Kind: kind}
}

// HasText reports whether the outcome should be dispatched.
func (o RecognitionOutcome) HasText() bool {
	return o.Kind == OutcomeText && o.Text != ""
}
