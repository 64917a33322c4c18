// Package auth resolves a caller identity and tier for each request.
//
// Identity is caller-declared in this version: the tier header is
// authoritative without verification. This is a documented trust
// boundary, not an oversight — IdentityProvider exists so a verifying
// implementation can replace the header provider without touching the
// limiter or dispatcher.
package auth

import (
	"strings"

	"github.com/Zeldorh1/omnitint-edge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Tier is the caller classification controlling the quota ceiling.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Identity is the per-request caller identity. It is never persisted as
// an entity; only its usage counters persist.
type Identity struct {
	ID   string
	Tier Tier
}

// IsPremium reports whether the identity gets the premium quota ceiling.
func (i Identity) IsPremium() bool {
	return i.Tier == TierPremium
}

// IdentityProvider derives a caller identity from a request.
type IdentityProvider interface {
	Identify(c *fiber.Ctx) Identity
}

// HeaderIdentityProvider resolves identity from request headers:
// explicit user-id header, then device-id header, then the originating
// network address, then the literal "anon".
type HeaderIdentityProvider struct {
	cfg models.AuthConfig
}

// NewHeaderIdentityProvider creates a provider using the configured
// header names.
func NewHeaderIdentityProvider(cfg models.AuthConfig) *HeaderIdentityProvider {
	return &HeaderIdentityProvider{cfg: cfg}
}

// Identify derives the caller identity from headers.
func (p *HeaderIdentityProvider) Identify(c *fiber.Ctx) Identity {
	id := strings.TrimSpace(c.Get(p.cfg.UserIDHeader))
	if id == "" {
		id = strings.TrimSpace(c.Get(p.cfg.DeviceIDHeader))
	}
	if id == "" {
		id = c.IP()
	}
	if id == "" {
		id = "anon"
	}

	return Identity{
		ID:   id,
		Tier: ParseTier(c.Get(p.cfg.TierHeader)),
	}
}

// ParseTier maps a caller-declared tier value to a Tier. "premium" and
// "pro" (case-insensitive) yield premium; anything else is free.
func ParseTier(raw string) Tier {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "premium", "pro":
		return TierPremium
	default:
		return TierFree
	}
}
