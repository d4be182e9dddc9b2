// Package config loads FRIDAY's settings from the environment (optionally
// seeded from a .env file) and from CLI flags bound into the same viper
// instance. Missing credentials are never an error: the component that
// needs them simply reports itself unavailable.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	WakeWord   string
	Continuous bool
	City       string
	UserName   string

	Memory    MemoryConfig
	Speech    SpeechConfig
	Listen    ListenConfig
	Chat      ChatConfig
	Weather   WeatherConfig
	Status    StatusConfig
	TextInput bool
	EchoOnly  bool
	LogFile   string
	Verbose   bool
	Quiet     bool
}

// MemoryConfig sizes the conversational memory.
type MemoryConfig struct {
	Pairs int
}

// SpeechConfig holds text-to-speech settings.
type SpeechConfig struct {
	Provider   string // pinned provider name, empty for automatic
	Speed      float64
	LocalVoice string

	AzureKey    string
	AzureRegion string
	AzureVoice  string

	ElevenKey   string
	ElevenVoice string
	ElevenModel string

	GTTSLang string
	GTTSTLD  string
}

// ListenConfig holds microphone and recognition settings.
type ListenConfig struct {
	Language        string
	EnergyThreshold float64
	Pause           time.Duration
	PhraseLimit     time.Duration
	Timeout         time.Duration
	DumpDir         string // keeps every captured phrase as WAV when set
}

// ChatConfig holds generative backend credentials.
type ChatConfig struct {
	OpenAIKey   string
	OpenAIModel string

	AzureKey      string
	AzureEndpoint string

	GeminiKey   string
	GeminiModel string
}

// WeatherConfig holds weather provider credentials.
type WeatherConfig struct {
	OpenWeatherKey string
}

// StatusConfig feeds the notification part of the status report.
type StatusConfig struct {
	UnreadEmails  int
	PendingAlerts int
}

// Keys used in the viper instance. Flags bind to the same names.
const (
	KeyWakeWord        = "wake_word"
	KeyContinuous      = "continuous"
	KeyCity            = "city"
	KeyUserName        = "user_name"
	KeyDumpAudio       = "dump_audio"
	KeyMemoryPairs     = "memory_pairs"
	KeyTTSProvider     = "tts_provider"
	KeyTTSSpeed        = "tts_speed"
	KeyLocalVoice      = "voice_id"
	KeyAzureKey        = "azure_speech_key"
	KeyAzureRegion     = "azure_speech_region"
	KeyAzureVoice      = "azure_speech_voice"
	KeyElevenKey       = "eleven_labs_api_key"
	KeyElevenVoice     = "eleven_labs_voice_id"
	KeyElevenModel     = "eleven_labs_model_id"
	KeyGTTSLang        = "gtts_lang"
	KeyGTTSTLD         = "gtts_tld"
	KeyASRLang         = "asr_lang"
	KeyEnergyThreshold = "energy_threshold"
	KeyPause           = "pause_threshold"
	KeyPhraseLimit     = "phrase_time_limit"
	KeyListenTimeout   = "listen_timeout"
	KeyOpenAIKey       = "openai_api_key"
	KeyOpenAIModel     = "openai_model"
	KeyGPTKey          = "gpt_chat_key"
	KeyGPTEndpoint     = "gpt_chat_endpoint"
	KeyGeminiKey       = "gemini_api_key"
	KeyGeminiModel     = "gemini_model"
	KeyOpenWeatherKey  = "openweather_api_key"
	KeyUnreadEmails    = "unread_emails"
	KeyPendingAlerts   = "pending_alerts"
	KeyText            = "text"
	KeyNoSpeech        = "no_speech"
	KeyLogFile         = "log_file"
	KeyVerbose         = "verbose"
	KeyQuiet           = "quiet"
)

// envBindings maps each key to the environment variables that can set it,
// in order of precedence.
var envBindings = map[string][]string{
	KeyWakeWord:        {"FRIDAY_WAKE_WORD"},
	KeyContinuous:      {"FRIDAY_CONTINUOUS"},
	KeyCity:            {"FRIDAY_DEFAULT_CITY", "CITY", "LOCATION"},
	KeyUserName:        {"FRIDAY_USER_NAME"},
	KeyDumpAudio:       {"FRIDAY_DUMP_AUDIO"},
	KeyMemoryPairs:     {"FRIDAY_MEMORY_PAIRS"},
	KeyTTSProvider:     {"FRIDAY_TTS_PROVIDER"},
	KeyTTSSpeed:        {"FRIDAY_TTS_SPEED"},
	KeyLocalVoice:      {"FRIDAY_VOICE_ID"},
	KeyAzureKey:        {"AZURE_SPEECH_KEY"},
	KeyAzureRegion:     {"AZURE_SPEECH_REGION"},
	KeyAzureVoice:      {"AZURE_SPEECH_VOICE"},
	KeyElevenKey:       {"ELEVEN_LABS_API_KEY", "ELEVENLABS_API_KEY"},
	KeyElevenVoice:     {"ELEVEN_LABS_VOICE_ID", "ELEVENLABS_VOICE_ID"},
	KeyElevenModel:     {"ELEVEN_LABS_MODEL_ID"},
	KeyGTTSLang:        {"FRIDAY_GTTS_LANG"},
	KeyGTTSTLD:         {"FRIDAY_GTTS_TLD"},
	KeyASRLang:         {"FRIDAY_ASR_LANG"},
	KeyEnergyThreshold: {"FRIDAY_ENERGY_THRESHOLD"},
	KeyPause:           {"FRIDAY_PAUSE_THRESHOLD"},
	KeyPhraseLimit:     {"FRIDAY_PHRASE_TIME_LIMIT"},
	KeyListenTimeout:   {"FRIDAY_LISTEN_TIMEOUT"},
	KeyOpenAIKey:       {"OPENAI_API_KEY"},
	KeyOpenAIModel:     {"OPENAI_MODEL"},
	KeyGPTKey:          {"GPT_CHAT_KEY"},
	KeyGPTEndpoint:     {"GPT_CHAT_ENDPOINT"},
	KeyGeminiKey:       {"GEMINI_API_KEY"},
	KeyGeminiModel:     {"GEMINI_MODEL"},
	KeyOpenWeatherKey:  {"OPENWEATHER_API_KEY"},
	KeyUnreadEmails:    {"FRIDAY_UNREAD_EMAILS"},
	KeyPendingAlerts:   {"FRIDAY_PENDING_ALERTS"},
}

// New returns a viper instance with FRIDAY's defaults and environment
// bindings. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyWakeWord, "friday")
	v.SetDefault(KeyContinuous, true)
	v.SetDefault(KeyCity, "Visakhapatnam")
	v.SetDefault(KeyUserName, "Boss")
	v.SetDefault(KeyMemoryPairs, 15)
	v.SetDefault(KeyTTSSpeed, 1.0)
	v.SetDefault(KeyAzureVoice, "en-IN-NeerjaNeural")
	v.SetDefault(KeyElevenVoice, "21m00Tcm4TlvDq8ikWAM")
	v.SetDefault(KeyElevenModel, "eleven_multilingual_v2")
	v.SetDefault(KeyGTTSLang, "en")
	v.SetDefault(KeyGTTSTLD, "co.in")
	v.SetDefault(KeyASRLang, "en-IN")
	v.SetDefault(KeyEnergyThreshold, 300.0)
	v.SetDefault(KeyPause, 0.8)
	v.SetDefault(KeyPhraseLimit, 10.0)
	v.SetDefault(KeyListenTimeout, 7.0)
	v.SetDefault(KeyOpenAIModel, "gpt-4o-mini")
	v.SetDefault(KeyGeminiModel, "gemini-2.0-flash")
	v.SetDefault(KeyUnreadEmails, 2)
	v.SetDefault(KeyPendingAlerts, 0)
	v.SetDefault(KeyLogFile, ".friday-logs/friday.log")
}

// LoadDotEnv seeds the process environment from the given files (".env"
// when none are given). Missing files are ignored; existing variables win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load reads the configuration out of v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		WakeWord:   strings.ToLower(strings.TrimSpace(v.GetString(KeyWakeWord))),
		Continuous: v.GetBool(KeyContinuous),
		City:       strings.TrimSpace(v.GetString(KeyCity)),
		UserName:   strings.TrimSpace(v.GetString(KeyUserName)),
		Memory:     MemoryConfig{Pairs: v.GetInt(KeyMemoryPairs)},
		Speech: SpeechConfig{
			Provider:    strings.ToLower(strings.TrimSpace(v.GetString(KeyTTSProvider))),
			Speed:       v.GetFloat64(KeyTTSSpeed),
			LocalVoice:  v.GetString(KeyLocalVoice),
			AzureKey:    v.GetString(KeyAzureKey),
			AzureRegion: v.GetString(KeyAzureRegion),
			AzureVoice:  v.GetString(KeyAzureVoice),
			ElevenKey:   v.GetString(KeyElevenKey),
			ElevenVoice: v.GetString(KeyElevenVoice),
			ElevenModel: v.GetString(KeyElevenModel),
			GTTSLang:    v.GetString(KeyGTTSLang),
			GTTSTLD:     v.GetString(KeyGTTSTLD),
		},
		Listen: ListenConfig{
			Language:        v.GetString(KeyASRLang),
			EnergyThreshold: v.GetFloat64(KeyEnergyThreshold),
			Pause:           seconds(v.GetFloat64(KeyPause)),
			PhraseLimit:     seconds(v.GetFloat64(KeyPhraseLimit)),
			Timeout:         seconds(v.GetFloat64(KeyListenTimeout)),
			DumpDir:         v.GetString(KeyDumpAudio),
		},
		Chat: ChatConfig{
			OpenAIKey:     v.GetString(KeyOpenAIKey),
			OpenAIModel:   v.GetString(KeyOpenAIModel),
			AzureKey:      v.GetString(KeyGPTKey),
			AzureEndpoint: v.GetString(KeyGPTEndpoint),
			GeminiKey:     v.GetString(KeyGeminiKey),
			GeminiModel:   v.GetString(KeyGeminiModel),
		},
		Weather: WeatherConfig{OpenWeatherKey: v.GetString(KeyOpenWeatherKey)},
		Status: StatusConfig{
			UnreadEmails:  v.GetInt(KeyUnreadEmails),
			PendingAlerts: v.GetInt(KeyPendingAlerts),
		},
		TextInput: v.GetBool(KeyText),
		EchoOnly:  v.GetBool(KeyNoSpeech),
		LogFile:   v.GetString(KeyLogFile),
		Verbose:   v.GetBool(KeyVerbose),
		Quiet:     v.GetBool(KeyQuiet),
	}

	if cfg.WakeWord == "" {
		return nil, fmt.Errorf("config: %s must not be empty", KeyWakeWord)
	}
	if cfg.Memory.Pairs < 1 {
		return nil, fmt.Errorf("config: %s must be at least 1, got %d", KeyMemoryPairs, cfg.Memory.Pairs)
	}
	if cfg.Speech.Speed <= 0 {
		cfg.Speech.Speed = 1.0
	}
	if cfg.UserName == "" {
		cfg.UserName = "Boss"
	}
	if cfg.City == "" {
		cfg.City = "Visakhapatnam"
	}
	return cfg, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
