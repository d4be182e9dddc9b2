package speech

import (
	"regexp"
	"strings"
	"unicode"
)

// splitChunks breaks text into sentence-boundary chunks of approximately
// size characters. A size of 0 or short text yields a single chunk.
func splitChunks(text string, size int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 || len(text) <= size {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, s := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+len(s) > size {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitSentences splits text at sentence boundaries (. ! ?) keeping the
// punctuation attached to the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if isSentenceEnd(runes[i]) {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// truncate shortens a string for logging.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

var (
	ansiCodes     = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	bracketPrefix = regexp.MustCompile(`^\[[A-Za-z]+\]\s*`)
	mdLink        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdMarkers     = regexp.MustCompile("(\\*\\*|__|`+|^#+\\s*|^\\s*[-*]\\s+)")
	spaceRuns     = regexp.MustCompile(`\s+`)
	envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z_\s]*[\)\]]`)
)

// CleanForSpeech strips formatting artifacts that shouldn't be spoken:
// terminal colour codes, log-style prefixes and markdown decoration.
func CleanForSpeech(msg string) string {
	cleaned := ansiCodes.ReplaceAllString(msg, "")
	cleaned = bracketPrefix.ReplaceAllString(cleaned, "")
	cleaned = mdLink.ReplaceAllString(cleaned, "$1")

	lines := strings.Split(cleaned, "\n")
	for i, l := range lines {
		lines[i] = mdMarkers.ReplaceAllString(l, "")
	}
	cleaned = strings.Join(lines, " ")
	cleaned = spaceRuns.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
