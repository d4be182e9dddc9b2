package gpt

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// DefaultGeminiModel is used when GEMINI_MODEL is unset.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiOption configures the Gemini backend.
type GeminiOption func(*geminiOptions)

type geminiOptions struct {
	model   string
	baseURL string
}

// WithGeminiModel selects the model.
func WithGeminiModel(model string) GeminiOption {
	return func(o *geminiOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithGeminiBaseURL points the client at another API root. Used by tests.
func WithGeminiBaseURL(url string) GeminiOption {
	return func(o *geminiOptions) { o.baseURL = url }
}

// Gemini is the backend for the Gemini Developer API.
type Gemini struct {
	client *genai.Client
	model  string
	log    *logger.Logger
}

// Compile-time interface check.
var _ Backend = (*Gemini)(nil)

// NewGemini creates the backend. Creating the client does no network I/O.
func NewGemini(ctx context.Context, apiKey string, log *logger.Logger, opts ...GeminiOption) (*Gemini, error) {
	o := geminiOptions{model: DefaultGeminiModel}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, model: o.model, log: log}, nil
}

func (b *Gemini) Name() string { return "gemini" }

// Complete sends the persona as the system instruction and replays the
// remaining history with Gemini's user/model roles.
func (b *Gemini) Complete(ctx context.Context, history []domain.Exchange) (string, error) {
	persona, rest := splitPersona(history)

	contents := make([]*genai.Content, 0, len(rest))
	for _, ex := range rest {
		var role genai.Role = genai.RoleUser
		if ex.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(ex.Content, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(DefaultTemperature)),
		MaxOutputTokens: int32(DefaultMaxTokens),
	}
	if persona != "" {
		config.SystemInstruction = genai.NewContentFromText(persona, genai.RoleUser)
	}

	b.log.Debug("gemini: %s with %d contents", b.model, len(contents))
	resp, err := b.client.Models.GenerateContent(ctx, b.model, contents, config)
	if err != nil {
		return "", domain.NewFault(domain.FaultService, "gemini", fmt.Errorf("generate content: %w", err))
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", domain.NewFault(domain.FaultService, "gemini", domain.ErrNoResult)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	reply := sb.String()
	if emptyReply(reply) {
		return "", domain.NewFault(domain.FaultService, "gemini", domain.ErrNoResult)
	}
	b.log.Debug("gemini: reply (%d chars): %s", len(reply), truncate(reply, 120))
	return reply, nil
}
