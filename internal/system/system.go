// Package system resolves utterances aimed at the local machine:
// launching applications, browser searches, volume and power control.
// A matched command is always reported as handled, even when the
// platform could not carry it out.
package system

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger"
)

// PowerGrace is the delay before a shutdown or restart takes effect.
const PowerGrace = 5 * time.Second

const volumeStep = 5

const (
	googleSearch    = "https://www.google.com/search?q="
	youtubeSearch   = "https://www.youtube.com/results?search_query="
	wikipediaSearch = "https://en.wikipedia.org/wiki/Special:Search?search="
)

// rule maps a trigger test to an action. Rules are checked in order;
// the first match wins. The action returns the phrase to speak.
type rule struct {
	name   string
	match  func(q string) bool
	action func(ctx context.Context, u domain.Utterance) string
}

// Resolver is the system stage of the dispatch cascade.
type Resolver struct {
	platform Platform
	speaker  domain.Speaker
	log      *logger.Logger
	rules    []rule
}

// Compile-time interface check.
var _ domain.Stage = (*Resolver)(nil)

// New creates a Resolver that acts through platform and reports
// through speaker.
func New(platform Platform, speaker domain.Speaker, log *logger.Logger) *Resolver {
	r := &Resolver{platform: platform, speaker: speaker, log: log}
	r.rules = []rule{
		{"chrome", anyOf("open chrome", "launch chrome", "start chrome"), r.launch("chrome", "Chrome")},
		{"vscode", anyOf("open vscode", "open vs code", "launch code"), r.launch("vscode", "VS Code")},
		{"spotify", anyOf("open spotify"), r.launch("spotify", "Spotify")},
		{"google", googleTrigger, r.search(googleSearch, lines.SearchingGoogle, "")},
		{"youtube", prefixOr("youtube ", "search youtube"), r.search(youtubeSearch, lines.SearchingYouTube, "search youtube")},
		{"wikipedia", prefixOr("wikipedia ", "search wikipedia"), r.search(wikipediaSearch, lines.SearchingWikipedia, "search wikipedia")},
		{"mute", allOf(hasWord("mute"), anyOf("volume")), r.mute(true)},
		{"unmute", allOf(anyOf("unmute", "restore"), anyOf("volume")), r.mute(false)},
		{"volume_up", anyOf("volume up"), r.nudge(volumeStep)},
		{"volume_down", anyOf("volume down"), r.nudge(-volumeStep)},
		{"shutdown", anyOf("shutdown system", "shutdown pc", "shutdown computer"), r.power(PowerOff, lines.ShuttingDown)},
		{"restart", anyOf("restart system", "restart pc", "restart computer"), r.power(PowerRestart, lines.Restarting)},
	}
	return r
}

func (r *Resolver) Name() string { return "system" }

// Resolve runs the first matching rule.
func (r *Resolver) Resolve(ctx context.Context, u domain.Utterance) (domain.DispatchResult, error) {
	for _, rl := range r.rules {
		if !rl.match(u.Normalized) {
			continue
		}
		r.log.Info("system: [%s] rule %s", u.ShortID(), rl.name)
		r.speaker.Say(ctx, rl.action(ctx, u))
		return domain.Handled, nil
	}
	return domain.NotHandled, nil
}

// ── Matchers ─────────────────────────────────────────────────────

func anyOf(subs ...string) func(string) bool {
	return func(q string) bool {
		for _, s := range subs {
			if strings.Contains(q, s) {
				return true
			}
		}
		return false
	}
}

func allOf(preds ...func(string) bool) func(string) bool {
	return func(q string) bool {
		for _, p := range preds {
			if !p(q) {
				return false
			}
		}
		return true
	}
}

func prefixOr(prefix, sub string) func(string) bool {
	return func(q string) bool {
		return strings.HasPrefix(q, prefix) || strings.Contains(q, sub)
	}
}

// hasWord matches w as a whole word, so "mute" does not fire on "unmute".
func hasWord(w string) func(string) bool {
	return func(q string) bool {
		for _, f := range strings.FieldsFunc(q, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
		}) {
			if f == w {
				return true
			}
		}
		return false
	}
}

// googleTrigger matches "google ..." and "search ..." unless the search
// names another site.
func googleTrigger(q string) bool {
	if !strings.HasPrefix(q, "google ") && !strings.HasPrefix(q, "search ") {
		return false
	}
	return !strings.Contains(q, "search youtube") && !strings.Contains(q, "search wikipedia")
}

// ── Actions ──────────────────────────────────────────────────────

func (r *Resolver) launch(app, display string) func(context.Context, domain.Utterance) string {
	return func(ctx context.Context, u domain.Utterance) string {
		if err := r.platform.Launch(ctx, app); err != nil {
			r.log.Warn("system: [%s] launch %s: %v", u.ShortID(), app, err)
			return lines.AppNotLocated()
		}
		return lines.Launching(display)
	}
}

func (r *Resolver) search(base string, say func(string) string, phrase string) func(context.Context, domain.Utterance) string {
	return func(ctx context.Context, u domain.Utterance) string {
		query := searchQuery(u, phrase)
		if err := r.platform.OpenURL(ctx, base+url.QueryEscape(query)); err != nil {
			r.log.Warn("system: [%s] open browser: %v", u.ShortID(), err)
			return lines.BrowserUnavailable()
		}
		return say(query)
	}
}

// searchQuery is everything after the first space of the original text.
// When the command was spoken as "... search <site> [for] <query>", the
// query is what follows the site phrase instead.
func searchQuery(u domain.Utterance, phrase string) string {
	if phrase != "" && len(u.Normalized) == len(u.Raw) {
		if i := strings.Index(u.Normalized, phrase); i >= 0 {
			rest := strings.TrimSpace(u.Raw[i+len(phrase):])
			if strings.HasPrefix(strings.ToLower(rest), "for ") {
				rest = strings.TrimSpace(rest[4:])
			}
			if rest != "" {
				return rest
			}
		}
	}
	_, rest, _ := strings.Cut(u.Raw, " ")
	return strings.TrimSpace(rest)
}

func (r *Resolver) mute(on bool) func(context.Context, domain.Utterance) string {
	return func(ctx context.Context, u domain.Utterance) string {
		if err := r.platform.SetMute(ctx, on); err != nil {
			r.log.Warn("system: [%s] mute=%v: %v", u.ShortID(), on, err)
			return lines.VolumeUnavailable()
		}
		if on {
			return lines.Muted()
		}
		return lines.Unmuted()
	}
}

func (r *Resolver) nudge(delta int) func(context.Context, domain.Utterance) string {
	return func(ctx context.Context, u domain.Utterance) string {
		if err := r.platform.NudgeVolume(ctx, delta); err != nil {
			r.log.Warn("system: [%s] volume %+d: %v", u.ShortID(), delta, err)
			return lines.VolumeUnavailable()
		}
		return lines.VolumeAdjusted()
	}
}

func (r *Resolver) power(action PowerAction, say func() string) func(context.Context, domain.Utterance) string {
	return func(ctx context.Context, u domain.Utterance) string {
		if err := r.platform.Power(ctx, action, PowerGrace); err != nil {
			r.log.Warn("system: [%s] %s: %v", u.ShortID(), action, err)
			return lines.PowerNotEngaged()
		}
		return say()
	}
}
