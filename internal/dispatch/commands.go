package dispatch

import (
	"fmt"
	"regexp"
	"strings"
)

// Command is a global command recognised before the cascade.
type Command int

const (
	CommandNone Command = iota
	CommandExit
	CommandStatus
)

func (c Command) String() string {
	switch c {
	case CommandExit:
		return "exit"
	case CommandStatus:
		return "status"
	default:
		return "none"
	}
}

// CommandParser matches utterances to global commands using anchored
// patterns, so "quit smoking tips" is not an exit and "shutdown system"
// stays a power action. Exit and quit accept a courtesy tail ("now",
// "please", "for now", "then") and nothing else.
type CommandParser struct {
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command Command
}

// NewCommandParser builds the table for the given wake word.
func NewCommandParser(wakeWord string) *CommandParser {
	w := regexp.QuoteMeta(strings.ToLower(wakeWord))
	return &CommandParser{patterns: []patternRule{
		{regexp.MustCompile(`^(please )?(exit|quit)(,? (now|please|for now|then))*$`), CommandExit},
		{regexp.MustCompile(fmt.Sprintf(`^(goodbye %[1]s|%[1]s shutdown|shutdown %[1]s|power down %[1]s)$`, w)), CommandExit},
		{regexp.MustCompile(`\bstatus report\b`), CommandStatus},
		{regexp.MustCompile(`^status$`), CommandStatus},
	}}
}

// Parse checks the full utterance and the text left after the wake word
// was stripped. Both are expected lowercase.
func (p *CommandParser) Parse(full, command string) Command {
	candidates := []string{trimPunct(full), trimPunct(command)}
	for _, rule := range p.patterns {
		for _, c := range candidates {
			if c != "" && rule.regex.MatchString(c) {
				return rule.command
			}
		}
	}
	return CommandNone
}

const wakePunct = ",. !?"

func trimPunct(s string) string {
	return strings.Trim(s, wakePunct)
}

// stripWakeWord removes a leading wake word and the punctuation after
// it. ok is false when text does not start with the wake word.
func stripWakeWord(raw, normalized, wake string) (rest string, ok bool) {
	if wake == "" || !strings.HasPrefix(normalized, wake) {
		return raw, false
	}
	if len(normalized) > len(wake) && !strings.ContainsRune(wakePunct, rune(normalized[len(wake)])) {
		return raw, false
	}
	src := raw
	if len(raw) != len(normalized) {
		src = normalized
	}
	return strings.TrimLeft(src[len(wake):], wakePunct), true
}
