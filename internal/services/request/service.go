package request

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	requestIDLocalKey  = "request_id"
	maxRequestIDLength = 256
)

// GetRequestID extracts the caller-supplied X-Request-ID or generates a
// fresh one, caching the result in fiber locals for the request's life.
func GetRequestID(c *fiber.Ctx) string {
	if cached, ok := c.Locals(requestIDLocalKey).(string); ok && cached != "" {
		return cached
	}

	requestID := strings.TrimSpace(c.Get("X-Request-ID"))
	if len(requestID) > maxRequestIDLength {
		requestID = requestID[:maxRequestIDLength]
	}
	if requestID == "" {
		requestID = GenerateRequestID()
	}

	c.Locals(requestIDLocalKey, requestID)
	return requestID
}

// GenerateRequestID creates a new random request ID.
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "req_unknown"
	}
	return "req_" + hex.EncodeToString(bytes)
}
