package system

import (
	"path/filepath"
	"strings"
)

// appCandidates lists launch commands for app on goos, user overrides
// first. FRIDAY_APP_<NAME> holds extra executables separated by the
// platform list separator.
func appCandidates(app, goos string, getenv func(string) string) []command {
	var out []command
	sep := ":"
	if goos == "windows" {
		sep = ";"
	}
	if extra := getenv("FRIDAY_APP_" + strings.ToUpper(app)); extra != "" {
		for _, p := range strings.Split(extra, sep) {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, command{p})
			}
		}
	}

	switch goos {
	case "windows":
		local, roaming := getenv("LOCALAPPDATA"), getenv("APPDATA")
		for _, p := range windowsApps(app, local, roaming) {
			out = append(out, command{p})
		}
	case "darwin":
		if bundle, ok := macBundles[app]; ok {
			out = append(out, command{"open", "-a", bundle})
		}
	default:
		for _, bin := range linuxBins[app] {
			out = append(out, command{bin})
		}
	}
	return out
}

var macBundles = map[string]string{
	"chrome":  "Google Chrome",
	"vscode":  "Visual Studio Code",
	"spotify": "Spotify",
}

var linuxBins = map[string][]string{
	"chrome":  {"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"},
	"vscode":  {"code", "codium"},
	"spotify": {"spotify"},
}

func windowsApps(app, local, roaming string) []string {
	var paths []string
	switch app {
	case "chrome":
		paths = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	case "vscode":
		paths = []string{"code"}
		if local != "" {
			paths = append(paths, filepath.Join(local, "Programs", "Microsoft VS Code", "Code.exe"))
		}
		paths = append(paths, `C:\Program Files\Microsoft VS Code\Code.exe`)
	case "spotify":
		if roaming != "" {
			paths = append(paths, filepath.Join(roaming, "Spotify", "Spotify.exe"))
		}
		if local != "" {
			paths = append(paths, filepath.Join(local, "Microsoft", "WindowsApps", "Spotify.exe"))
		}
	}
	return paths
}

// isAbs reports whether p is an absolute path on any supported platform.
func isAbs(p string) bool {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) > 2 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}
