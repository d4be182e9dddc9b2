// Package display renders FRIDAY's console output: the banner, the
// transcript of everything spoken, what was heard, and dim hints.
//
// All writes go through one mutex so lines from the dispatch loop and
// background speech never interleave.
package display

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle: muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dd3fc")).
			Bold(true)

	// Chat: soft sky blue for assistant speech.
	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Secondary text: dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Urgent: soft coral for errors/alerts.
	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// ── Console ──────────────────────────────────────────────────────

// Console writes styled lines to a terminal.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console on out, or stdout when out is nil.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Println prints a line. Thread-safe.
func (c *Console) Println(a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}

// Printf prints formatted text. Thread-safe.
func (c *Console) Printf(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

// PrintBanner prints the centred banner.
func (c *Console) PrintBanner() {
	c.Printf("%s\n", RenderBanner(0))
}

// PrintChat prints assistant speech.
func (c *Console) PrintChat(text string) {
	c.Println(nameStyle.Render("FRIDAY") + secondaryStyle.Render(": ") + chatStyle.Render(text))
}

// PrintHeard echoes recognised user input.
func (c *Console) PrintHeard(text string) {
	c.Println(promptStyle.Render("you") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// PrintHint prints secondary information.
func (c *Console) PrintHint(text string) {
	c.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints a warning.
func (c *Console) PrintUrgent(text string) {
	c.Println(urgentOutputStyle.Render("  " + text))
}

// Prompt prints the typed-input prompt without a newline.
func (c *Console) Prompt() {
	c.Printf("%s", promptStyle.Render("you")+secondaryStyle.Render("> "))
}
