package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/Zeldorh1/omnitint-edge/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"google.golang.org/genai"
)

// GeminiProvider calls the Gemini API through the official SDK. It is
// the default fallback behind Grok.
type GeminiProvider struct {
	name   string
	model  string
	chat   models.ChatConfig
	client *genai.Client
}

// NewGeminiProvider builds the provider and its SDK client.
func NewGeminiProvider(ctx context.Context, pc models.ProviderConfig, chat models.ChatConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  pc.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client for %s: %w", pc.Name, err)
	}

	return &GeminiProvider{
		name:   pc.Name,
		model:  pc.Model,
		chat:   chat,
		client: client,
	}, nil
}

// Name returns the configured provider name.
func (p *GeminiProvider) Name() string {
	return p.name
}

// Complete sends the prompt with the shared system preamble.
func (p *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	temp := float32(p.chat.Temperature)
	genCfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(temp),
		MaxOutputTokens:   int32(p.chat.MaxTokens),
		SystemInstruction: genai.NewContentFromText(systemPreamble, genai.RoleUser),
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), genCfg)
	if err != nil {
		fiberlog.Errorf("provider %s: request failed after %v: %v", p.name, time.Since(start), err)
		return "", models.NewProviderError(p.name, "generate request failed", err)
	}

	return resp.Text(), nil
}
