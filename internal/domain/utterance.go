package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Utterance is one recognized user command. Raw keeps the original
// casing for things like search queries; Normalized is what every
// matcher looks at.
type Utterance struct {
	ID         string
	Raw        string
	Normalized string
}

// NewUtterance builds an utterance from recognized text.
func NewUtterance(raw string) Utterance {
	raw = strings.TrimSpace(raw)
	return Utterance{
		ID:         uuid.NewString(),
		Raw:        raw,
		Normalized: strings.ToLower(raw),
	}
}

// WithText returns a copy of u carrying new text under the same ID.
func (u Utterance) WithText(raw string) Utterance {
	raw = strings.TrimSpace(raw)
	u.Raw = raw
	u.Normalized = strings.ToLower(raw)
	return u
}

// ShortID is the prefix of the ID used in log lines.
func (u Utterance) ShortID() string {
	if len(u.ID) < 8 {
		return u.ID
	}
	return u.ID[:8]
}

// DispatchResult tells the loop whether a stage claimed the utterance.
type DispatchResult int

const (
	NotHandled DispatchResult = iota
	Handled
)

func (r DispatchResult) String() string {
	if r == Handled {
		return "handled"
	}
	return "not_handled"
}

// Role identifies who produced an exchange.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Exchange is one entry of conversational memory.
type Exchange struct {
	Role    Role
	Content string
}
