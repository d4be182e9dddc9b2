package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

const (
	elevenBaseURL      = "https://api.elevenlabs.io/v1"
	elevenDefaultVoice = "21m00Tcm4TlvDq8ikWAM"
	elevenDefaultModel = "eleven_multilingual_v2"
	elevenOutputFormat = "pcm_24000"
)

// ElevenLabsOption configures the ElevenLabs client.
type ElevenLabsOption func(*ElevenLabsClient)

// WithElevenVoice sets the voice ID.
func WithElevenVoice(id string) ElevenLabsOption {
	return func(c *ElevenLabsClient) {
		if id != "" {
			c.voiceID = id
		}
	}
}

// WithElevenModel sets the synthesis model.
func WithElevenModel(model string) ElevenLabsOption {
	return func(c *ElevenLabsClient) {
		if model != "" {
			c.modelID = model
		}
	}
}

// WithElevenBaseURL overrides the API root. Used by tests.
func WithElevenBaseURL(url string) ElevenLabsOption {
	return func(c *ElevenLabsClient) { c.baseURL = url }
}

type elevenVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenRequest struct {
	Text          string              `json:"text"`
	ModelID       string              `json:"model_id"`
	VoiceSettings elevenVoiceSettings `json:"voice_settings"`
}

// ElevenLabsClient synthesizes speech with the ElevenLabs streaming API,
// asking for raw 24 kHz PCM so no decoding step is needed.
type ElevenLabsClient struct {
	apiKey     string
	voiceID    string
	modelID    string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// Compile-time interface check.
var _ Synthesizer = (*ElevenLabsClient)(nil)

// NewElevenLabsClient creates a client. An empty key leaves it unavailable.
func NewElevenLabsClient(apiKey string, log *logger.Logger, opts ...ElevenLabsOption) *ElevenLabsClient {
	c := &ElevenLabsClient{
		apiKey:     apiKey,
		voiceID:    elevenDefaultVoice,
		modelID:    elevenDefaultModel,
		baseURL:    elevenBaseURL,
		httpClient: &http.Client{Timeout: synthTimeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ElevenLabsClient) Name() string  { return ProviderElevenLabs }
func (c *ElevenLabsClient) Voice() string { return c.voiceID }

func (c *ElevenLabsClient) Available() error {
	if c.apiKey == "" {
		return domain.Unavailable("elevenlabs", "ELEVEN_LABS_API_KEY not set")
	}
	return nil
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) (PCM, error) {
	body, err := json.Marshal(elevenRequest{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: elevenVoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	})
	if err != nil {
		return PCM{}, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/stream?output_format=%s", c.baseURL, c.voiceID, elevenOutputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return PCM{}, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	req.Header.Set("Accept", "audio/pcm")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	c.log.Debug("elevenlabs: synthesizing %d chars with voice %s", len(text), c.voiceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PCM{}, domain.NewFault(domain.FaultNetwork, "elevenlabs", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PCM{}, domain.NewFault(domain.FaultService, "elevenlabs",
			fmt.Errorf("elevenlabs error %d: %s", resp.StatusCode, string(msg)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return PCM{}, domain.NewFault(domain.FaultNetwork, "elevenlabs", err)
	}
	c.log.Debug("elevenlabs: got %d bytes of audio", len(raw))
	return pcmFromBytes(raw, 24000, 1)
}
