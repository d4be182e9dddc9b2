// FRIDAY, a desktop voice assistant.
//
// Usage:
//
//	friday [--text] [--no-speech] [--continuous=false] [--wake-word friday] [--verbose] [--quiet]
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gen2brain/beeep"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/friday/internal/brain"
	"github.com/hammamikhairi/friday/internal/capture"
	"github.com/hammamikhairi/friday/internal/config"
	"github.com/hammamikhairi/friday/internal/dispatch"
	"github.com/hammamikhairi/friday/internal/display"
	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/gpt"
	"github.com/hammamikhairi/friday/internal/lines"
	"github.com/hammamikhairi/friday/internal/logger"
	"github.com/hammamikhairi/friday/internal/speech"
	"github.com/hammamikhairi/friday/internal/status"
	"github.com/hammamikhairi/friday/internal/system"
	"github.com/hammamikhairi/friday/internal/web"
)

var version = "dev"

func main() {
	config.LoadDotEnv()
	v := config.New()

	root := &cobra.Command{
		Use:           "friday",
		Short:         "FRIDAY, a voice assistant for your desktop",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v)
		},
	}

	flags := root.Flags()
	flags.Bool("verbose", false, "enable verbose/debug logging")
	flags.Bool("quiet", false, "disable all logging")
	flags.String("log-file", ".friday-logs/friday.log", "file to write logs to (use \"stderr\" to log to console)")
	flags.Bool("text", false, "read typed input instead of the microphone")
	flags.Bool("no-speech", false, "echo replies as text only")
	flags.Bool("continuous", true, "answer every utterance without waiting for the wake word")
	flags.String("wake-word", "friday", "word that activates the assistant when not continuous")
	flags.String("dump-audio", "", "directory to save every captured phrase as WAV")

	for flag, key := range map[string]string{
		"verbose":    config.KeyVerbose,
		"quiet":      config.KeyQuiet,
		"log-file":   config.KeyLogFile,
		"text":       config.KeyText,
		"no-speech":  config.KeyNoSpeech,
		"continuous": config.KeyContinuous,
		"wake-word":  config.KeyWakeWord,
		"dump-audio": config.KeyDumpAudio,
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(parent context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logOut, closeLog := openLog(cfg.LogFile)
	defer closeLog()

	// Third-party packages that use the standard logger go to the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	logLevel := logger.LevelNormal
	if cfg.Verbose {
		logLevel = logger.LevelVerbose
	}
	if cfg.Quiet {
		logLevel = logger.LevelOff
	}
	log := logger.New(logLevel, logOut)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines.SetUser(cfg.UserName)

	console := display.NewConsole(os.Stdout)
	console.PrintBanner()

	var player *speech.Player
	mouth := buildMouth(cfg, console, log, &player)
	if player != nil {
		defer player.Stop()
	}

	listener, cleanup := buildListener(cfg, console, mouth, log)
	defer cleanup()

	backends := buildBackends(ctx, cfg, log)
	if len(backends) == 0 {
		console.PrintHint("No chat backend configured, answering from the offline table.")
	}

	webR := web.New(log,
		web.WithOpenWeatherKey(cfg.Weather.OpenWeatherKey),
		web.WithDefaultCity(cfg.City),
		web.WithSpeaker(mouth),
	)
	br := brain.New(backends, log,
		brain.WithPairs(cfg.Memory.Pairs),
		brain.WithSpeaker(mouth),
		brain.WithUserName(cfg.UserName),
	)
	sys := system.New(system.NewOS(log), mouth, log)
	reporter := status.New(cfg.City, status.Counts{
		UnreadEmails:  cfg.Status.UnreadEmails,
		PendingAlerts: cfg.Status.PendingAlerts,
	}, webR, webR, log)

	assistant := dispatch.New(listener, mouth, []domain.Stage{sys, webR, br}, log,
		dispatch.WithWakeWord(cfg.WakeWord),
		dispatch.WithContinuous(cfg.Continuous),
		dispatch.WithListenLimits(cfg.Listen.Timeout, cfg.Listen.PhraseLimit),
		dispatch.WithStatus(reporter),
		dispatch.WithHeard(console.PrintHeard),
		dispatch.WithHint(console.PrintHint),
	)

	if !cfg.Continuous {
		console.PrintHint(fmt.Sprintf("Say %q to get my attention. Say \"exit\" to quit.", cfg.WakeWord))
	} else {
		console.PrintHint("Listening continuously. Say \"exit\" to quit.")
	}
	console.Println()

	notify(log)
	mouth.Say(ctx, lines.Boot(lines.User()))
	mouth.Say(ctx, lines.Awaiting())

	if err := assistant.Run(ctx); err != nil {
		log.Error("dispatch: %v", err)
		return err
	}
	log.Info("FRIDAY shut down")
	return nil
}

// openLog directs logs to a file by default so the console stays clean.
func openLog(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { _ = f.Close() }
}

// buildMouth assembles the provider chain: Azure, ElevenLabs, gTTS, then
// the local engine. With --no-speech the chain is empty and the console
// echo is all that remains.
func buildMouth(cfg *config.Config, console *display.Console, log *logger.Logger, playerOut **speech.Player) *speech.Mouth {
	opts := []speech.MouthOption{speech.WithTranscript(console.PrintChat)}
	if cfg.EchoOnly {
		log.Info("speech disabled, text echo only")
		return speech.NewMouth(nil, log, opts...)
	}

	var providers []speech.Provider
	player, err := speech.NewPlayer(log)
	if err != nil {
		log.Warn("audio player unavailable, network voices disabled: %v", err)
	} else {
		*playerOut = player
		sc := cfg.Speech
		cache := speech.NewAudioCache(log)
		audio := func(s speech.Synthesizer) speech.Provider {
			return speech.NewAudioProvider(s, player, log, speech.WithSpeed(sc.Speed), speech.WithCache(cache))
		}
		if sc.AzureKey != "" && sc.AzureRegion != "" {
			providers = append(providers, audio(speech.NewAzureClient(sc.AzureKey, sc.AzureRegion, log, speech.WithVoice(sc.AzureVoice))))
		}
		if sc.ElevenKey != "" {
			providers = append(providers, audio(speech.NewElevenLabsClient(sc.ElevenKey, log,
				speech.WithElevenVoice(sc.ElevenVoice),
				speech.WithElevenModel(sc.ElevenModel),
			)))
		}
		providers = append(providers, audio(speech.NewGTTSClient(log, speech.WithGTTSLang(sc.GTTSLang, sc.GTTSTLD))))
	}
	providers = append(providers, speech.NewLocalEngine(log, speech.WithLocalVoice(cfg.Speech.LocalVoice)))

	if cfg.Speech.Provider != "" {
		opts = append(opts, speech.WithPinnedProvider(cfg.Speech.Provider))
	}
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	log.Info("speech providers: %v", names)
	return speech.NewMouth(providers, log, opts...)
}

// buildListener picks the microphone when it can be opened and Google
// credentials are present, and typed input otherwise.
func buildListener(cfg *config.Config, console *display.Console, prompter domain.Speaker, log *logger.Logger) (domain.Listener, func()) {
	typed := func(reason string) (domain.Listener, func()) {
		if reason != "" {
			console.PrintHint(reason + " Type your requests instead.")
		}
		return speech.NewConsoleEar(os.Stdin, console.Prompt, log), func() {}
	}

	if cfg.TextInput {
		return typed("")
	}
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		log.Info("listen: GOOGLE_APPLICATION_CREDENTIALS not set, using typed input")
		return typed("Speech recognition is not configured.")
	}
	mic, err := capture.Open(speech.CaptureRate, speech.CaptureFrame, log)
	if err != nil {
		log.Warn("listen: microphone unavailable: %v", err)
		return typed("No microphone found.")
	}

	rec := speech.NewGoogleRecognizer(cfg.Listen.Language, log)
	ear := speech.NewEar(mic, rec, log,
		speech.WithEnergyThreshold(cfg.Listen.EnergyThreshold),
		speech.WithPauseThreshold(cfg.Listen.Pause),
		speech.WithPrompter(prompter),
		speech.WithDumpDir(cfg.Listen.DumpDir),
	)
	return ear, func() {
		_ = rec.Close()
		_ = mic.Close()
	}
}

// buildBackends lists the configured chat backends in fallback order.
func buildBackends(ctx context.Context, cfg *config.Config, log *logger.Logger) []gpt.Backend {
	var backends []gpt.Backend
	cc := cfg.Chat
	if cc.OpenAIKey != "" {
		backends = append(backends, gpt.NewOpenAI(cc.OpenAIKey, log, gpt.WithOpenAIModel(cc.OpenAIModel)))
	}
	if cc.AzureKey != "" && cc.AzureEndpoint != "" {
		backends = append(backends, gpt.NewClient(cc.AzureEndpoint, cc.AzureKey, log))
	}
	if cc.GeminiKey != "" {
		g, err := gpt.NewGemini(ctx, cc.GeminiKey, log, gpt.WithGeminiModel(cc.GeminiModel))
		if err != nil {
			log.Warn("chat: gemini unavailable: %v", err)
		} else {
			backends = append(backends, g)
		}
	}
	for _, b := range backends {
		log.Info("chat backend enabled: %s", b.Name())
	}
	return backends
}

// notify is a best-effort desktop cue that FRIDAY is up.
func notify(log *logger.Logger) {
	if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
		log.Debug("beep: %v", err)
	}
	if err := beeep.Notify("FRIDAY", "Online and listening", ""); err != nil {
		log.Debug("notify: %v", err)
	}
}
