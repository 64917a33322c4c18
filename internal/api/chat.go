package api

import (
	"strings"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/auth"
	"github.com/Zeldorh1/omnitint-edge/internal/services/fallback"
	"github.com/Zeldorh1/omnitint-edge/internal/services/ratelimit"
	"github.com/Zeldorh1/omnitint-edge/internal/services/request"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// ChatHandler serves POST /chat: identity → quota reservation →
// provider dispatch → response shaping.
type ChatHandler struct {
	identity auth.IdentityProvider
	limiter  *ratelimit.Limiter
	dispatch *fallback.Service
}

// NewChatHandler wires up the chat endpoint's dependencies.
func NewChatHandler(identity auth.IdentityProvider, limiter *ratelimit.Limiter, dispatch *fallback.Service) *ChatHandler {
	return &ChatHandler{
		identity: identity,
		limiter:  limiter,
		dispatch: dispatch,
	}
}

// Chat handles a completion request. The prompt is validated before
// quota is reserved, so malformed requests never consume quota; a
// failed completion after reservation still does.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	reqID := request.GetRequestID(c)

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return models.NewValidationError("invalid request body", err)
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return models.NewValidationError("prompt is required", nil)
	}

	identity := h.identity.Identify(c)
	fiberlog.Infof("[%s] chat request from %s (premium=%t)", reqID, identity.ID, identity.IsPremium())

	allowed, snapshot, err := h.limiter.CheckAndReserve(c.Context(), identity.ID, identity.IsPremium())
	if err != nil {
		return models.NewInternalError("rate limit check failed", err)
	}
	if !allowed {
		fiberlog.Infof("[%s] rate limited (%s scope, %d/%d)", reqID, snapshot.Scope, snapshot.Used, snapshot.Limit)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"ok":    false,
			"error": models.CodeRateLimit,
			"limit": snapshot,
		})
	}

	result, err := h.dispatch.Complete(c.Context(), prompt, reqID)
	if err != nil {
		return err
	}

	return c.JSON(models.ChatResponse{
		OK:        true,
		UID:       identity.ID,
		IsPremium: identity.IsPremium(),
		Provider:  result.Provider,
		Limit:     snapshot,
		Content:   result.Content,
	})
}
