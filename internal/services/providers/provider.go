// Package providers holds the completion-provider implementations the
// dispatcher tries in order. Adding a provider means adding an entry to
// the configured chain, not branching logic.
package providers

import (
	"context"
	"fmt"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
)

// systemPreamble constrains tone and safety for every completion,
// regardless of provider. The advice stays cosmetic: no medical claims,
// and chemical treatments always come with a patch-test reminder.
const systemPreamble = "You are OmniTint's hair styling assistant. " +
	"Give friendly, practical advice about hair color, styling, and care. " +
	"Never give medical advice; for scalp or skin concerns, recommend seeing a professional. " +
	"When discussing dyes, bleach, or other chemical treatments, always remind the user to do a patch test first. " +
	"Keep answers concise."

// Completer is a single text-completion provider. Complete returns the
// extracted plain-text content, or an error when the transport fails or
// the provider answers with a non-success status.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// BuildChain constructs the ordered provider chain from configuration.
// The first entry is the primary; the rest are fallbacks.
func BuildChain(ctx context.Context, cfgs []models.ProviderConfig, chat models.ChatConfig) ([]Completer, error) {
	chain := make([]Completer, 0, len(cfgs))
	for _, pc := range cfgs {
		switch pc.Kind {
		case "grok", "openai":
			chain = append(chain, NewGrokProvider(pc, chat))
		case "gemini":
			p, err := NewGeminiProvider(ctx, pc, chat)
			if err != nil {
				return nil, err
			}
			chain = append(chain, p)
		case "anthropic":
			chain = append(chain, NewAnthropicProvider(pc, chat))
		default:
			return nil, fmt.Errorf("unknown provider kind %q for %s", pc.Kind, pc.Name)
		}
	}
	return chain, nil
}
