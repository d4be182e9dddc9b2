// Package gpt provides the chat backends behind FRIDAY's generative
// fallback: OpenAI, an OpenAI-compatible REST endpoint (Azure OpenAI
// deployments), and Google Gemini. Every backend takes the full
// conversation history and returns one reply.
package gpt

import (
	"context"
	"strings"

	"github.com/hammamikhairi/friday/internal/domain"
)

// Backend is one chat-completion provider.
type Backend interface {
	Name() string
	Complete(ctx context.Context, history []domain.Exchange) (string, error)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// splitPersona separates a leading system entry from the rest of the
// history, for APIs that take the system prompt out of band.
func splitPersona(history []domain.Exchange) (string, []domain.Exchange) {
	if len(history) > 0 && history[0].Role == domain.RoleSystem {
		return history[0].Content, history[1:]
	}
	return "", history
}

func emptyReply(s string) bool {
	return strings.TrimSpace(s) == ""
}
