package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// ErrAppNotFound means no launch candidate for the application exists.
var ErrAppNotFound = errors.New("application not located")

// PowerAction is a computer power operation.
type PowerAction int

const (
	PowerOff PowerAction = iota
	PowerRestart
)

func (a PowerAction) String() string {
	if a == PowerRestart {
		return "restart"
	}
	return "shutdown"
}

// Platform performs the operating-system side effects. Facilities the
// host lacks return an error wrapping domain.ErrUnsupported.
type Platform interface {
	Launch(ctx context.Context, app string) error
	OpenURL(ctx context.Context, url string) error
	SetMute(ctx context.Context, mute bool) error
	NudgeVolume(ctx context.Context, percent int) error
	Power(ctx context.Context, action PowerAction, grace time.Duration) error
}

// command is one argv to try.
type command []string

// OSOption configures the OS platform.
type OSOption func(*OS)

// WithRunner replaces process lookup and execution. start launches
// without waiting; run waits for the exit status.
func WithRunner(
	lookPath func(string) (string, error),
	start func(name string, args ...string) error,
	run func(ctx context.Context, name string, args ...string) error,
) OSOption {
	return func(o *OS) {
		o.lookPath = lookPath
		o.start = start
		o.run = run
	}
}

// WithGOOS overrides runtime.GOOS.
func WithGOOS(goos string) OSOption {
	return func(o *OS) { o.goos = goos }
}

// WithFileCheck replaces the existence test for absolute paths.
func WithFileCheck(exists func(path string) bool) OSOption {
	return func(o *OS) { o.exists = exists }
}

// WithGetenv replaces os.Getenv for candidate discovery.
func WithGetenv(getenv func(string) string) OSOption {
	return func(o *OS) { o.getenv = getenv }
}

// OS is the Platform backed by the host's own commands.
type OS struct {
	goos     string
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
	run      func(ctx context.Context, name string, args ...string) error
	exists   func(string) bool
	getenv   func(string) string
	log      *logger.Logger
}

// Compile-time interface check.
var _ Platform = (*OS)(nil)

// NewOS creates the platform for the running system.
func NewOS(log *logger.Logger, opts ...OSOption) *OS {
	o := &OS{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			cmd := exec.Command(name, args...)
			if err := cmd.Start(); err != nil {
				return err
			}
			go func() { _ = cmd.Wait() }()
			return nil
		},
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
		exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		getenv: os.Getenv,
		log:    log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Launch starts the first candidate found for app.
func (o *OS) Launch(ctx context.Context, app string) error {
	for _, c := range appCandidates(app, o.goos, o.getenv) {
		if !o.present(c[0]) {
			continue
		}
		var err error
		if o.goos == "darwin" && c[0] == "open" {
			// open -a fails fast when the bundle is missing.
			err = o.run(ctx, c[0], c[1:]...)
		} else {
			err = o.start(c[0], c[1:]...)
		}
		if err != nil {
			o.log.Debug("system: launch %v: %v", c, err)
			continue
		}
		o.log.Info("system: launched %s via %v", app, c)
		return nil
	}
	return fmt.Errorf("%s: %w", app, ErrAppNotFound)
}

func (o *OS) present(bin string) bool {
	if isAbs(bin) {
		return o.exists(bin)
	}
	_, err := o.lookPath(bin)
	return err == nil
}

// OpenURL hands url to the desktop's default browser.
func (o *OS) OpenURL(_ context.Context, url string) error {
	var c command
	switch o.goos {
	case "darwin":
		c = command{"open", url}
	case "windows":
		c = command{"rundll32", "url.dll,FileProtocolHandler", url}
	default:
		c = command{"xdg-open", url}
	}
	if !o.present(c[0]) {
		return fmt.Errorf("open url: %s: %w", c[0], domain.ErrUnsupported)
	}
	if err := o.start(c[0], c[1:]...); err != nil {
		return domain.NewFault(domain.FaultDevice, "open url", err)
	}
	return nil
}

func (o *OS) SetMute(ctx context.Context, mute bool) error {
	flag := map[bool]string{true: "1", false: "0"}[mute]
	word := map[bool]string{true: "mute", false: "unmute"}[mute]
	return o.firstOf(ctx, "mute", map[string][]command{
		"linux": {
			{"pactl", "set-sink-mute", "@DEFAULT_SINK@", flag},
			{"amixer", "-q", "set", "Master", word},
		},
		"darwin": {
			{"osascript", "-e", "set volume output muted " + strconv.FormatBool(mute)},
		},
		"windows": {
			{"nircmd", "mutesysvolume", flag},
		},
	})
}

func (o *OS) NudgeVolume(ctx context.Context, percent int) error {
	sign := "+"
	if percent < 0 {
		sign = "-"
	}
	abs := percent
	if abs < 0 {
		abs = -abs
	}
	return o.firstOf(ctx, "volume", map[string][]command{
		"linux": {
			{"pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%s%d%%", sign, abs)},
			{"amixer", "-q", "set", "Master", fmt.Sprintf("%d%%%s", abs, sign)},
		},
		"darwin": {
			{"osascript", "-e", fmt.Sprintf("set volume output volume ((output volume of (get volume settings)) %s %d)", sign, abs)},
		},
		"windows": {
			{"nircmd", "changesysvolume", strconv.Itoa(percent * 65535 / 100)},
		},
	})
}

// Power schedules the action after grace. The delay is handed to the
// OS command itself so it survives this process exiting.
func (o *OS) Power(ctx context.Context, action PowerAction, grace time.Duration) error {
	secs := strconv.Itoa(int(grace.Seconds()))
	var c command
	switch o.goos {
	case "windows":
		flag := map[PowerAction]string{PowerOff: "/s", PowerRestart: "/r"}[action]
		c = command{"shutdown", flag, "/t", secs}
	case "linux":
		verb := map[PowerAction]string{PowerOff: "poweroff", PowerRestart: "reboot"}[action]
		if !o.present("systemctl") {
			return fmt.Errorf("power: systemctl: %w", domain.ErrUnsupported)
		}
		c = command{"sh", "-c", fmt.Sprintf("sleep %s && systemctl %s", secs, verb)}
	case "darwin":
		verb := map[PowerAction]string{PowerOff: "shut down", PowerRestart: "restart"}[action]
		c = command{"sh", "-c", fmt.Sprintf(`sleep %s && osascript -e 'tell app "System Events" to %s'`, secs, verb)}
	default:
		return fmt.Errorf("power on %s: %w", o.goos, domain.ErrUnsupported)
	}
	if !o.present(c[0]) {
		return fmt.Errorf("power: %s: %w", c[0], domain.ErrUnsupported)
	}
	o.log.Warn("system: %s scheduled in %s", action, grace)
	if err := o.start(c[0], c[1:]...); err != nil {
		return domain.NewFault(domain.FaultDevice, "power", err)
	}
	return nil
}

// firstOf runs the first command of the current platform whose binary
// exists.
func (o *OS) firstOf(ctx context.Context, op string, table map[string][]command) error {
	for _, c := range table[o.goos] {
		if !o.present(c[0]) {
			continue
		}
		if err := o.run(ctx, c[0], c[1:]...); err != nil {
			o.log.Debug("system: %s via %s failed: %v", op, c[0], err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%s: %w", op, domain.ErrUnsupported)
}
