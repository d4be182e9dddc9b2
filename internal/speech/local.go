package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// engineSpec describes one command-line speech engine.
type engineSpec struct {
	bin  string
	args func(voice, text string) []string
}

// localEngines lists the engines tried per platform, in order.
var localEngines = map[string][]engineSpec{
	"darwin": {
		{bin: "say", args: func(voice, text string) []string {
			if voice != "" {
				return []string{"-v", voice, text}
			}
			return []string{text}
		}},
	},
	"linux": {
		{bin: "espeak-ng", args: espeakArgs},
		{bin: "espeak", args: espeakArgs},
		{bin: "spd-say", args: func(_, text string) []string { return []string{"--wait", text} }},
	},
	"windows": {
		{bin: "powershell", args: func(voice, text string) []string {
			script := "Add-Type -AssemblyName System.Speech; " +
				"$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; "
			if voice != "" {
				script += fmt.Sprintf("$s.SelectVoice('%s'); ", psQuote(voice))
			}
			script += fmt.Sprintf("$s.Speak('%s')", psQuote(text))
			return []string{"-NoProfile", "-NonInteractive", "-Command", script}
		}},
	},
}

func espeakArgs(voice, text string) []string {
	if voice == "" {
		voice = "en-in"
	}
	return []string{"-v", voice, text}
}

func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// LocalOption configures the local engine.
type LocalOption func(*LocalEngine)

// WithLocalVoice selects a voice understood by the platform engine.
func WithLocalVoice(voice string) LocalOption {
	return func(e *LocalEngine) { e.voice = voice }
}

// WithCommandRunner replaces process execution. Used by tests.
func WithCommandRunner(lookPath func(string) (string, error), run func(ctx context.Context, bin string, args ...string) error) LocalOption {
	return func(e *LocalEngine) {
		e.lookPath = lookPath
		e.run = run
	}
}

// withPlatform overrides runtime.GOOS.
func withPlatform(goos string) LocalOption {
	return func(e *LocalEngine) { e.goos = goos }
}

// LocalEngine speaks through the operating system's own synthesizer. It
// plays audio itself, so it needs no audio sink.
type LocalEngine struct {
	voice    string
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, bin string, args ...string) error
	log      *logger.Logger
}

// Compile-time interface check.
var _ Provider = (*LocalEngine)(nil)

// NewLocalEngine creates the provider for the current platform.
func NewLocalEngine(log *logger.Logger, opts ...LocalOption) *LocalEngine {
	e := &LocalEngine{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, bin string, args ...string) error {
			return exec.CommandContext(ctx, bin, args...).Run()
		},
		log: log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *LocalEngine) Name() string { return ProviderLocal }

func (e *LocalEngine) Available() error {
	if _, _, err := e.resolve(); err != nil {
		return err
	}
	return nil
}

func (e *LocalEngine) Speak(ctx context.Context, text string) error {
	spec, path, err := e.resolve()
	if err != nil {
		return err
	}
	e.log.Debug("local tts: %s speaking %d chars", spec.bin, len(text))
	if err := e.run(ctx, path, spec.args(e.voice, text)...); err != nil {
		return domain.NewFault(domain.FaultDevice, "local tts "+spec.bin, err)
	}
	return nil
}

// resolve picks the first installed engine for the platform.
func (e *LocalEngine) resolve() (engineSpec, string, error) {
	for _, spec := range localEngines[e.goos] {
		if path, err := e.lookPath(spec.bin); err == nil {
			return spec, path, nil
		}
	}
	return engineSpec{}, "", domain.Unavailable("local tts", "no speech engine installed for "+e.goos)
}
