package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Zeldorh1/omnitint-edge/internal/models"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicOption "github.com/anthropics/anthropic-sdk-go/option"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// AnthropicProvider calls the Anthropic Messages API. Optional third
// link in the chain for deployments that configure it.
type AnthropicProvider struct {
	name   string
	model  string
	chat   models.ChatConfig
	client anthropic.Client
}

// NewAnthropicProvider builds the provider from its config entry.
func NewAnthropicProvider(pc models.ProviderConfig, chat models.ChatConfig) *AnthropicProvider {
	opts := []anthropicOption.RequestOption{
		anthropicOption.WithAPIKey(pc.APIKey),
	}
	if pc.BaseURL != "" {
		opts = append(opts, anthropicOption.WithBaseURL(pc.BaseURL))
	}
	if pc.TimeoutMs > 0 {
		httpClient := &http.Client{Timeout: time.Duration(pc.TimeoutMs) * time.Millisecond}
		opts = append(opts, anthropicOption.WithHTTPClient(httpClient))
	}

	return &AnthropicProvider{
		name:   pc.Name,
		model:  pc.Model,
		chat:   chat,
		client: anthropic.NewClient(opts...),
	}
}

// Name returns the configured provider name.
func (p *AnthropicProvider) Name() string {
	return p.name
}

// Complete sends the prompt with the shared system preamble.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   p.chat.MaxTokens,
		Temperature: anthropic.Float(p.chat.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPreamble},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	start := time.Now()
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		fiberlog.Errorf("provider %s: request failed after %v: %v", p.name, time.Since(start), err)
		return "", models.NewProviderError(p.name, "message request failed", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
