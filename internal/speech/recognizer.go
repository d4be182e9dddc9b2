package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

const recognizeTimeout = 15 * time.Second

// recognizeClient is the slice of the Cloud Speech client we use.
type recognizeClient interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)
	Close() error
}

// speechClient adapts the generated client, whose Recognize is variadic.
type speechClient struct{ c *speechapi.Client }

func (s speechClient) Recognize(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	return s.c.Recognize(ctx, req)
}

func (s speechClient) Close() error { return s.c.Close() }

// GoogleRecognizer transcribes captured phrases with Google Cloud
// Speech-to-Text. The client is created lazily so a missing credential
// file only fails the first recognition, as a network error.
type GoogleRecognizer struct {
	language string
	log      *logger.Logger

	mu     sync.Mutex
	client recognizeClient
	dial   func(ctx context.Context) (recognizeClient, error)
}

// Compile-time interface check.
var _ Recognizer = (*GoogleRecognizer)(nil)

// NewGoogleRecognizer creates a recognizer for the BCP-47 language tag.
func NewGoogleRecognizer(language string, log *logger.Logger) *GoogleRecognizer {
	if language == "" {
		language = "en-IN"
	}
	return &GoogleRecognizer{
		language: language,
		log:      log,
		dial: func(ctx context.Context) (recognizeClient, error) {
			c, err := speechapi.NewClient(ctx)
			if err != nil {
				return nil, err
			}
			return speechClient{c: c}, nil
		},
	}
}

func (g *GoogleRecognizer) conn(ctx context.Context) (recognizeClient, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	c, err := g.dial(ctx)
	if err != nil {
		return nil, domain.NewFault(domain.FaultNetwork, "google stt", fmt.Errorf("failed to create speech client: %w", err))
	}
	g.client = c
	return c, nil
}

// Recognize sends the clip as LINEAR16 and returns the best transcript.
func (g *GoogleRecognizer) Recognize(ctx context.Context, clip PCM) (string, error) {
	client, err := g.conn(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, recognizeTimeout)
	defer cancel()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            int32(clip.SampleRate),
			LanguageCode:               g.language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: clip.Bytes()},
		},
	})
	if err != nil {
		return "", domain.NewFault(domain.FaultNetwork, "google stt", err)
	}

	var parts []string
	for _, result := range resp.GetResults() {
		if alts := result.GetAlternatives(); len(alts) > 0 {
			parts = append(parts, alts[0].GetTranscript())
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	g.log.Debug("google stt: %d results -> %q", len(resp.GetResults()), text)
	return text, nil
}

// Close releases the client, if one was created.
func (g *GoogleRecognizer) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}
