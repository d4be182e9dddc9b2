package brain

import "github.com/hammamikhairi/friday/internal/domain"

// Memory is the bounded conversation history sent to chat backends. The
// persona entry always sits at index 0, followed by (user, assistant)
// pairs; at most pairs of them are kept. Memory is owned by one Brain
// and is not safe for concurrent use.
type Memory struct {
	entries []domain.Exchange
	pairs   int
}

// NewMemory creates a memory seeded with the persona prompt.
func NewMemory(persona string, pairs int) *Memory {
	if pairs < 1 {
		pairs = 1
	}
	return &Memory{
		entries: []domain.Exchange{{Role: domain.RoleSystem, Content: persona}},
		pairs:   pairs,
	}
}

// Append records one exchange and trims the oldest pairs.
func (m *Memory) Append(user, assistant string) {
	m.entries = append(m.entries,
		domain.Exchange{Role: domain.RoleUser, Content: user},
		domain.Exchange{Role: domain.RoleAssistant, Content: assistant},
	)
	m.Trim()
}

// Trim drops the oldest pairs until the limit holds. Calling it again
// changes nothing.
func (m *Memory) Trim() {
	limit := 1 + 2*m.pairs
	if len(m.entries) <= limit {
		return
	}
	drop := len(m.entries) - limit
	drop += drop % 2
	kept := make([]domain.Exchange, 0, limit)
	kept = append(kept, m.entries[0])
	kept = append(kept, m.entries[1+drop:]...)
	m.entries = kept
}

// Messages returns a copy of the history.
func (m *Memory) Messages() []domain.Exchange {
	out := make([]domain.Exchange, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries including the persona.
func (m *Memory) Len() int { return len(m.entries) }

// Limit returns the maximum number of entries.
func (m *Memory) Limit() int { return 1 + 2*m.pairs }
