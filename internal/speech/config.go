package speech

import "time"

// Default Azure voice. Full list:
// https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-IN-NeerjaNeural"

// Audio format requested from Azure.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Playback parameters. Every provider's audio is converted to this.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Capture parameters for recognition.
const (
	CaptureRate     = 16000
	CaptureChannels = 1
	CaptureFrame    = 1600 // 100 ms
)

// Provider names, as accepted by FRIDAY_TTS_PROVIDER.
const (
	ProviderAzure      = "azure"
	ProviderElevenLabs = "elevenlabs"
	ProviderGTTS       = "gtts"
	ProviderLocal      = "local"
	ProviderEcho       = "echo"
)

// Network timeout for every synthesis request.
const synthTimeout = 20 * time.Second
