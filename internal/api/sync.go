package api

import (
	"encoding/json"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/auth"
	"github.com/Zeldorh1/omnitint-edge/internal/services/ingest"
	"github.com/Zeldorh1/omnitint-edge/internal/services/request"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// SyncHandler serves POST /sync, the telemetry batch ingest endpoint.
type SyncHandler struct {
	svc *ingest.Service
}

// NewSyncHandler wires up the ingest endpoint.
func NewSyncHandler(svc *ingest.Service) *SyncHandler {
	return &SyncHandler{svc: svc}
}

// Sync authenticates the ingest token, validates the batch, and
// persists the surviving events. A storage failure degrades to
// {ok:true, stored:0}: dropped telemetry beats a retry storm.
func (h *SyncHandler) Sync(c *fiber.Ctx) error {
	reqID := request.GetRequestID(c)

	token := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !h.svc.Authorize(token) {
		return models.NewAuthenticationError("invalid ingest token")
	}

	var body struct {
		Batch any `json:"batch"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return models.NewValidationError("invalid JSON body", err)
	}

	batch, ok := body.Batch.([]any)
	if !ok || len(batch) == 0 {
		// Absent, non-array, or empty batch succeeds trivially.
		return c.JSON(models.SyncResponse{OK: true, Stored: 0})
	}

	events := h.svc.PrepareBatch(batch)
	if len(events) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":     false,
			"error":  models.CodeBadRequest,
			"reason": "no_valid_events",
		})
	}

	if err := h.svc.Persist(c.Context(), events); err != nil {
		fiberlog.Errorf("[%s] event persistence failed, dropping batch: %v", reqID, err)
		return c.JSON(models.SyncResponse{OK: true, Stored: 0})
	}

	fiberlog.Infof("[%s] stored %d/%d events", reqID, len(events), len(batch))
	return c.JSON(models.SyncResponse{OK: true, Stored: len(events)})
}
