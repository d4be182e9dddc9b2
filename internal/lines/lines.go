// Package lines centralises every spoken string. Edit this file to change
// FRIDAY's personality. Keep lines short; the TTS engine handles inflection.
package lines

import (
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"
)

// DefaultUser is how FRIDAY addresses the user until SetUser says otherwise.
const DefaultUser = "Boss"

var addressee atomic.Value

func init() { addressee.Store(DefaultUser) }

// SetUser changes the name every line addresses. Blank names are ignored.
func SetUser(name string) {
	if name = strings.TrimSpace(name); name != "" {
		addressee.Store(name)
	}
}

// User returns the current form of address.
func User() string { return addressee.Load().(string) }

// ── Greeting / Global ────────────────────────────────────────────

func Boot(user string) string {
	return fmt.Sprintf("Boot sequence complete. Systems online. Namaste %s, good to see you.", user)
}

func Awaiting() string {
	return "Awaiting your command..."
}

func Farewell() string {
	return fmt.Sprintf("Powering down FRIDAY interface. Ping me when you need me, %s.", User())
}

func Interrupted() string {
	return "Manual interrupt detected. Standing down with elegance."
}

func LoopRecovery() string {
	return "Minor anomaly detected. Stabilizing and resuming operations."
}

// ── Stage apologies ──────────────────────────────────────────────

func SystemFault() string {
	return "System control experienced turbulence. Containing the breach and moving on."
}

func WebFault() string {
	return "Web subsystem had a hiccup. I will compensate with onboard cognition."
}

func BrainFault() string {
	return "Cognitive array momentarily disrupted. Attempting graceful recovery."
}

func StatusFault() string {
	return fmt.Sprintf("Unable to compile the status report, %s.", User())
}

func NothingToSay() string {
	return fmt.Sprintf("I am drawing a blank on that one, %s. Try phrasing it differently.", User())
}

// ── Listening ────────────────────────────────────────────────────

func Unintelligible() string {
	return fmt.Sprintf("Acoustics unclear. Could you repeat that, %s?", User())
}

func NetworkHiccup() string {
	return "Network hiccup. Reattempting capture."
}

// ── System control ───────────────────────────────────────────────

func Launching(app string) string {
	return fmt.Sprintf("Launching %s.", app)
}

func AppNotLocated() string {
	return "Application not located. Recommend manual launch or path configuration."
}

func SearchingGoogle(query string) string {
	return fmt.Sprintf("Searching Google for %s.", query)
}

func SearchingYouTube(query string) string {
	return fmt.Sprintf("Pulling up YouTube results for %s.", query)
}

func SearchingWikipedia(query string) string {
	return fmt.Sprintf("Opening Wikipedia for %s.", query)
}

func BrowserUnavailable() string {
	return fmt.Sprintf("Browser did not respond. You may need to open it manually, %s.", User())
}

func Muted() string {
	return "Audio muted."
}

func Unmuted() string {
	return "Audio restored."
}

func VolumeAdjusted() string {
	return "Adjusting audio levels."
}

func VolumeUnavailable() string {
	return fmt.Sprintf("Volume control is not available on this system, %s.", User())
}

func ShuttingDown() string {
	return fmt.Sprintf("Initiating system shutdown in five seconds. Save your work, %s.", User())
}

func Restarting() string {
	return "Initiating system restart in five seconds."
}

func PowerNotEngaged() string {
	return "Power command did not engage. Permission or policy may be restricting."
}

// ── Web intents ──────────────────────────────────────────────────

// TimeCheck reads the local time, e.g.
// "Local time check: Monday, 03:04 PM. Right on schedule, Boss."
// with the default user.
func TimeCheck(now time.Time) string {
	return fmt.Sprintf("Local time check: %s. Right on schedule, %s.", now.Format("Monday, 03:04 PM"), User())
}

func Weather(city string, tempC float64, desc string) string {
	return fmt.Sprintf("Weather in %s is %.0f°C with %s.", city, tempC, desc)
}

func WeatherUnavailable() string {
	return fmt.Sprintf("Unable to fetch weather data, %s.", User())
}

func Headlines(titles []string) string {
	return fmt.Sprintf("Latest headlines: %s. Want details on any of these?", strings.Join(titles, "; "))
}

func NoHeadlines() string {
	return fmt.Sprintf("The news wires are quiet right now. No fresh headlines, %s.", User())
}

func HeadlinesUnavailable() string {
	return fmt.Sprintf("Unable to reach the news wires at the moment, %s.", User())
}

// ── Status report ────────────────────────────────────────────────

func StatusGreeting(daypart string, now time.Time) string {
	return fmt.Sprintf("Good %s, %s. The time is %s hours on %s.",
		daypart, User(), now.Format("15:04"), now.Format("Monday, 02 January 2006"))
}

func LocalHeadline(title string) string {
	return fmt.Sprintf("Local headline: %s.", strings.TrimRight(title, ". "))
}

func NationalHeadline(title string) string {
	return fmt.Sprintf("National headline: %s.", strings.TrimRight(title, ". "))
}

func LocalHeadlineUnavailable() string {
	return fmt.Sprintf("Local headlines are unavailable at the moment, %s.", User())
}

func NationalHeadlineUnavailable() string {
	return fmt.Sprintf("National headlines are unavailable at the moment, %s.", User())
}

func Emails(n int) string {
	switch n {
	case 0:
		return "Inbox is clear."
	case 1:
		return "You have 1 unread email."
	default:
		return fmt.Sprintf("You have %d unread emails.", n)
	}
}

func Alerts(n int) string {
	switch n {
	case 0:
		return "No pending system notifications. All clear."
	case 1:
		return "There is 1 pending system notification."
	default:
		return fmt.Sprintf("There are %d pending system notifications.", n)
	}
}

func StandingBy() string {
	return "Standing by for your next command."
}

// ── Offline cognition ────────────────────────────────────────────

func OfflineGreeting() string {
	return fmt.Sprintf("Fully operational, %s. Standing by for your command.", User())
}

func OfflineWellbeing() string {
	return "Diagnostics green, energy levels optimal. Ready when you are."
}

func OfflineIdentity() string {
	return "I am FRIDAY: your focused, reliable, intelligent digital aide."
}

func OfflineDefault() string {
	return "My offline cognition is engaged. I lack internet and GPT access, but I can still assist with quick answers, reminders, and system commands."
}

// ── Thinking fillers ─────────────────────────────────────────────

// Thinking returns a random filler for slow lookups.
func Thinking() string {
	fillers := [...]string{
		"Processing.",
		"Running the numbers.",
		"One moment, " + User() + ".",
		"Consulting the archives.",
	}
	return fillers[rand.Intn(len(fillers))]
}
