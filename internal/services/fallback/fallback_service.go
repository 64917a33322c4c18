// Package fallback dispatches completion requests across the ordered
// provider chain: one attempt per provider, first success wins.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/providers"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

const (
	// RolePrimary labels the first provider in the chain.
	RolePrimary = "primary"
	// RoleFallback labels every provider after the first.
	RoleFallback = "fallback"

	// emptyContentPlaceholder is substituted when a provider succeeds
	// but extraction yields nothing; callers never receive empty content.
	emptyContentPlaceholder = "No response."
)

// Result is a successful dispatch outcome.
type Result struct {
	// Provider is "primary" or "fallback", the label surfaced to clients.
	Provider string
	// ProviderName is the configured name of the provider that answered.
	ProviderName string
	Content      string
}

// Service runs the provider chain.
type Service struct {
	chain []providers.Completer
}

// NewService creates a dispatcher over the given chain.
func NewService(chain []providers.Completer) *Service {
	return &Service{chain: chain}
}

// Complete tries each provider in order with a single attempt each.
// Transport failures and non-success statuses both trigger fallback;
// the error returned when all fail carries per-provider detail for
// operators but never credentials.
func (s *Service) Complete(ctx context.Context, prompt, requestID string) (*Result, error) {
	if len(s.chain) == 0 {
		return nil, models.NewInternalError("no completion providers configured", nil)
	}

	fiberlog.Infof("[%s] dispatching across %d provider(s)", requestID, len(s.chain))

	var failures []error
	for i, p := range s.chain {
		role := RoleFallback
		if i == 0 {
			role = RolePrimary
		}

		fiberlog.Infof("[%s] trying %s provider [%d/%d]: %s", requestID, role, i+1, len(s.chain), p.Name())

		content, err := p.Complete(ctx, prompt)
		if err != nil {
			fiberlog.Warnf("[%s] ❌ %s provider %s failed: %v", requestID, role, p.Name(), err)
			failures = append(failures, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		if content == "" {
			fiberlog.Warnf("[%s] provider %s returned empty content, substituting placeholder", requestID, p.Name())
			content = emptyContentPlaceholder
		}

		fiberlog.Infof("[%s] ✅ success with %s provider: %s", requestID, role, p.Name())
		return &Result{
			Provider:     role,
			ProviderName: p.Name(),
			Content:      content,
		}, nil
	}

	fiberlog.Errorf("[%s] all %d providers failed: %v", requestID, len(s.chain), failures)
	return nil, models.NewProviderError("chain", "all providers failed", errors.Join(failures...))
}
