package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	// ErrUnavailable marks a provider that cannot serve at all: missing
	// credentials, missing binary, no audio device. Callers skip it.
	ErrUnavailable = errors.New("unavailable")
	// ErrNoResult means a provider answered but had nothing useful.
	ErrNoResult = errors.New("no result")
	// ErrUnsupported means the platform lacks the facility.
	ErrUnsupported = errors.New("unsupported on this platform")
)

// FaultKind classifies a transient external failure.
type FaultKind int

const (
	// FaultNetwork covers transport errors and timeouts.
	FaultNetwork FaultKind = iota
	// FaultService covers non-success statuses and malformed payloads.
	FaultService
	// FaultDevice covers local audio and process failures.
	FaultDevice
)

func (k FaultKind) String() string {
	switch k {
	case FaultNetwork:
		return "network"
	case FaultService:
		return "service"
	case FaultDevice:
		return "device"
	default:
		return fmt.Sprintf("FaultKind(%d)", int(k))
	}
}

// Fault is a transient failure of one external operation. It is always
// recoverable: the caller apologises or falls through to the next provider.
type Fault struct {
	Kind FaultKind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s %s fault: %v", f.Op, f.Kind, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// NewFault wraps err as a Fault. A nil err yields nil.
func NewFault(kind FaultKind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Kind: kind, Op: op, Err: err}
}

// Unavailable wraps a reason with ErrUnavailable.
func Unavailable(what, reason string) error {
	return fmt.Errorf("%s: %s: %w", what, reason, ErrUnavailable)
}
