package gpt

import (
	"fmt"
	"strings"
)

// System prompts live here so personality changes are a single-file edit.
// Keep them concise: every token costs money and latency.

// personaTemplate seeds every conversation. Replies are spoken aloud, so
// the model is told to avoid formatting.
const personaTemplate = `You are FRIDAY, an advanced yet personable AI assistant.
Style: natural, futuristic, witty, professional, caring, with Indian English tone and idioms when appropriate.
Address the user as '%s'. Keep replies concise unless asked.
Never use markdown, lists or emojis; your answer will be spoken by a TTS engine.`

// Persona returns the system prompt addressing the user by name.
func Persona(user string) string {
	if user = strings.TrimSpace(user); user == "" {
		user = "Boss"
	}
	return fmt.Sprintf(personaTemplate, user)
}

// PromptPersona is the persona for the default form of address.
var PromptPersona = Persona("")

// Request parameters shared by every backend.
const (
	DefaultMaxTokens   = 300
	DefaultTemperature = 0.8
)
