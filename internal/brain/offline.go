package brain

import (
	"regexp"
	"strings"

	"github.com/hammamikhairi/friday/internal/lines"
)

// offlineRule maps a prompt pattern to a canned reply. Rules are checked
// in order; the first match wins.
type offlineRule struct {
	match func(prompt string) bool
	reply func() string
}

var greetingWord = regexp.MustCompile(`\b(hello|hi)\b`)

func contains(sub string) func(string) bool {
	return func(p string) bool { return strings.Contains(p, sub) }
}

var offlineRules = []offlineRule{
	{contains("how are you"), lines.OfflineWellbeing},
	{contains("who are you"), lines.OfflineIdentity},
	{greetingWord.MatchString, lines.OfflineGreeting},
}

// Offline answers without any backend.
func Offline(prompt string) string {
	p := strings.ToLower(prompt)
	for _, r := range offlineRules {
		if r.match(p) {
			return r.reply()
		}
	}
	return lines.OfflineDefault()
}
