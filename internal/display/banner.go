package display

import (
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

const bannerArt = `
 ███████╗██████╗ ██╗██████╗  █████╗ ██╗   ██╗
 ██╔════╝██╔══██╗██║██╔══██╗██╔══██╗╚██╗ ██╔╝
 █████╗  ██████╔╝██║██║  ██║███████║ ╚████╔╝
 ██╔══╝  ██╔══██╗██║██║  ██║██╔══██║  ╚██╔╝
 ██║     ██║  ██║██║██████╔╝██║  ██║   ██║
 ╚═╝     ╚═╝  ╚═╝╚═╝╚═════╝ ╚═╝  ╚═╝   ╚═╝`

const tagline = "voice assistant online"

// RenderBanner returns the banner art horizontally centred for the
// given terminal width. Width 0 means the current terminal.
func RenderBanner(width int) string {
	if width <= 0 {
		width = termWidth()
	}

	rows := strings.Split(strings.Trim(bannerArt, "\n"), "\n")
	rows = append(rows, "", tagline)

	maxW := 0
	for _, l := range rows {
		if n := len([]rune(l)); n > maxW {
			maxW = n
		}
	}

	var b strings.Builder
	for _, l := range rows {
		pad := 0
		if width > maxW {
			pad = (width - maxW) / 2
		}
		if l == tagline {
			pad += (maxW - len(tagline)) / 2
		}
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
