package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/Zeldorh1/omnitint-edge/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/openai/openai-go/v2"
	openaiOption "github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

// GrokProvider calls an OpenAI-compatible chat-completions API. xAI's
// Grok is the usual primary, but any compatible endpoint works via the
// base_url override.
type GrokProvider struct {
	name   string
	model  string
	chat   models.ChatConfig
	client openai.Client
}

// NewGrokProvider builds the provider from its config entry.
func NewGrokProvider(pc models.ProviderConfig, chat models.ChatConfig) *GrokProvider {
	opts := []openaiOption.RequestOption{
		openaiOption.WithAPIKey(pc.APIKey),
	}
	if pc.BaseURL != "" {
		opts = append(opts, openaiOption.WithBaseURL(pc.BaseURL))
	}
	if pc.TimeoutMs > 0 {
		httpClient := &http.Client{Timeout: time.Duration(pc.TimeoutMs) * time.Millisecond}
		opts = append(opts, openaiOption.WithHTTPClient(httpClient))
	}

	return &GrokProvider{
		name:   pc.Name,
		model:  pc.Model,
		chat:   chat,
		client: openai.NewClient(opts...),
	}
}

// Name returns the configured provider name.
func (p *GrokProvider) Name() string {
	return p.name
}

// Complete sends the prompt with the shared system preamble.
func (p *GrokProvider) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPreamble),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(p.chat.Temperature),
		MaxTokens:   openai.Int(p.chat.MaxTokens),
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		fiberlog.Errorf("provider %s: request failed after %v: %v", p.name, time.Since(start), err)
		return "", models.NewProviderError(p.name, "chat completion request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
