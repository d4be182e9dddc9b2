package gpt

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hammamikhairi/friday/internal/domain"
	"github.com/hammamikhairi/friday/internal/logger"
)

// DefaultOpenAIModel is used when OPENAI_MODEL is unset.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIOption configures the OpenAI backend.
type OpenAIOption func(*openAIOptions)

type openAIOptions struct {
	model   string
	baseURL string
}

// WithOpenAIModel selects the model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *openAIOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at another API root. Used by tests.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(o *openAIOptions) { o.baseURL = url }
}

// OpenAI is the backend for api.openai.com.
type OpenAI struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

// Compile-time interface check.
var _ Backend = (*OpenAI)(nil)

// NewOpenAI creates the backend for the given API key.
func NewOpenAI(apiKey string, log *logger.Logger, opts ...OpenAIOption) *OpenAI {
	o := openAIOptions{model: DefaultOpenAIModel}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := openai.DefaultConfig(apiKey)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  o.model,
		log:    log,
	}
}

func (b *OpenAI) Name() string { return "openai" }

func (b *OpenAI) Complete(ctx context.Context, history []domain.Exchange) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, ex := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: string(ex.Role), Content: ex.Content})
	}

	b.log.Debug("openai: %s with %d messages", b.model, len(msgs))
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    msgs,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	})
	if err != nil {
		return "", domain.NewFault(domain.FaultService, "openai", fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 || emptyReply(resp.Choices[0].Message.Content) {
		return "", domain.NewFault(domain.FaultService, "openai", domain.ErrNoResult)
	}
	reply := resp.Choices[0].Message.Content
	b.log.Debug("openai: reply (%d chars): %s", len(reply), truncate(reply, 120))
	return reply, nil
}
