package speech

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-audio/wav"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// AzureOption configures the Azure TTS client.
type AzureOption func(*AzureClient)

// WithVoice sets the TTS voice.
func WithVoice(voice string) AzureOption {
	return func(c *AzureClient) {
		if voice != "" {
			c.voice = voice
		}
	}
}

// WithAudioFormat sets the audio output format.
func WithAudioFormat(format string) AzureOption {
	return func(c *AzureClient) {
		c.format = format
	}
}

// WithHTTPTimeout sets the HTTP client timeout for TTS requests.
func WithHTTPTimeout(d time.Duration) AzureOption {
	return func(c *AzureClient) {
		c.httpClient.Timeout = d
	}
}

// WithEndpoint overrides the synthesis URL. Used by tests.
func WithEndpoint(url string) AzureOption {
	return func(c *AzureClient) {
		c.endpoint = url
	}
}

// AzureClient handles text-to-speech synthesis via Azure Cognitive Services.
type AzureClient struct {
	subscriptionKey string
	region          string
	voice           string
	format          string
	endpoint        string
	httpClient      *http.Client
	log             *logger.Logger
}

// Compile-time interface check.
var _ Synthesizer = (*AzureClient)(nil)

// NewAzureClient creates an Azure TTS client with the given credentials.
// Empty credentials are allowed; the client then reports itself unavailable.
func NewAzureClient(key, region string, log *logger.Logger, opts ...AzureOption) *AzureClient {
	c := &AzureClient{
		subscriptionKey: key,
		region:          region,
		voice:           DefaultVoice,
		format:          DefaultAudioFormat,
		httpClient: &http.Client{
			Timeout: synthTimeout,
		},
		log: log,
	}
	if region != "" {
		c.endpoint = fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *AzureClient) Name() string { return ProviderAzure }

// Voice returns the configured voice name.
func (c *AzureClient) Voice() string { return c.voice }

func (c *AzureClient) Available() error {
	if c.subscriptionKey == "" || c.endpoint == "" {
		return domain.Unavailable("azure tts", "AZURE_SPEECH_KEY and AZURE_SPEECH_REGION not set")
	}
	return nil
}

// Synthesize converts text to speech and decodes the returned WAV.
func (c *AzureClient) Synthesize(ctx context.Context, text string) (PCM, error) {
	ssml := c.buildSSML(text)
	c.log.Debug("azure tts: synthesizing %d chars with voice %s", len(text), c.voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(ssml))
	if err != nil {
		return PCM{}, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", c.format)
	req.Header.Set("User-Agent", "FRIDAY/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PCM{}, domain.NewFault(domain.FaultNetwork, "azure tts", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PCM{}, domain.NewFault(domain.FaultService, "azure tts",
			fmt.Errorf("azure tts error %d: %s", resp.StatusCode, string(body)))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return PCM{}, domain.NewFault(domain.FaultNetwork, "azure tts", fmt.Errorf("reading audio data: %w", err))
	}

	c.log.Debug("azure tts: got %d bytes of audio", len(audioData))
	clip, err := decodeWAV(audioData)
	if err != nil {
		return PCM{}, domain.NewFault(domain.FaultService, "azure tts", err)
	}
	return clip, nil
}

// buildSSML creates SSML markup for the synthesis request.
func (c *AzureClient) buildSSML(text string) string {
	var escaped bytes.Buffer
	_ = xml.EscapeText(&escaped, []byte(text))
	lang := "en-US"
	if parts := strings.SplitN(c.voice, "-", 3); len(parts) == 3 {
		lang = parts[0] + "-" + parts[1]
	}
	return fmt.Sprintf(
		`<speak version='1.0' xml:lang='%s'><voice xml:lang='%s' name='%s'>%s</voice></speak>`,
		lang, lang, c.voice, escaped.String(),
	)
}

// decodeWAV reads a RIFF/WAVE payload into mono PCM.
func decodeWAV(data []byte) (PCM, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return PCM{}, errors.New("not a valid WAV file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return PCM{}, fmt.Errorf("decoding wav: %w", err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return PCM{}, errors.New("data chunk not found in WAV")
	}
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(d.BitDepth)
	}
	return pcmFromInts(buf.Data, buf.Format.SampleRate, buf.Format.NumChannels, depth), nil
}
