// Package ingest validates, sanitizes, and persists batches of client
// telemetry events. The stored log is append-only: records are written
// once, never updated, and expire via TTL.
package ingest

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/store"
	"github.com/Zeldorh1/omnitint-edge/internal/utils"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// allowedEventTypes is the fixed schema of known client events. Unknown
// types are dropped silently, keeping the stored schema tight.
var allowedEventTypes = map[string]struct{}{
	"app.session":      {},
	"app.screen_view":  {},
	"tryon.start":      {},
	"tryon.apply":      {},
	"tryon.save":       {},
	"tryon.share":      {},
	"chat.prompt":      {},
	"paywall.view":     {},
	"paywall.purchase": {},
	"error.client":     {},
}

// Service handles telemetry batch ingestion.
type Service struct {
	kv  store.KV
	cfg models.IngestConfig
	now func() time.Time
}

// NewService creates an ingest service over the given store.
func NewService(kv store.KV, cfg models.IngestConfig) *Service {
	return &Service{
		kv:  kv,
		cfg: cfg,
		now: time.Now,
	}
}

// Authorize compares the presented bearer token against the ingest
// secret in constant time.
func (s *Service) Authorize(token string) bool {
	if token == "" || s.cfg.Token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Token)) == 1
}

// PrepareBatch validates and sanitizes a decoded batch. The batch is
// truncated to the configured hard cap before any per-event work;
// events failing shape validation or carrying an unknown type are
// dropped, not errored. Every returned event is fully sanitized.
func (s *Service) PrepareBatch(batch []any) []models.StoredEvent {
	if len(batch) > s.cfg.MaxBatch {
		fiberlog.Warnf("ingest: batch of %d truncated to %d", len(batch), s.cfg.MaxBatch)
		batch = batch[:s.cfg.MaxBatch]
	}

	receivedAt := s.now().UnixMilli()
	events := make([]models.StoredEvent, 0, len(batch))
	for _, raw := range batch {
		ev, ok := validateEvent(raw)
		if !ok {
			continue
		}
		ev.ReceivedAt = receivedAt
		events = append(events, ev)
	}
	return events
}

// validateEvent checks required fields and primitive shapes: v and ts
// finite numbers, id and type non-empty strings, type in the allow-list.
func validateEvent(raw any) (models.StoredEvent, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.StoredEvent{}, false
	}

	v, ok := finiteNumber(obj["v"])
	if !ok {
		return models.StoredEvent{}, false
	}
	ts, ok := finiteNumber(obj["ts"])
	if !ok {
		return models.StoredEvent{}, false
	}
	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return models.StoredEvent{}, false
	}
	typ, ok := obj["type"].(string)
	if !ok || typ == "" {
		return models.StoredEvent{}, false
	}
	if _, known := allowedEventTypes[typ]; !known {
		return models.StoredEvent{}, false
	}

	var payload map[string]any
	if p, ok := obj["payload"].(map[string]any); ok {
		payload = SanitizePayload(p)
	}

	return models.StoredEvent{
		SchemaVersion: int(v),
		ID:            id,
		Type:          typ,
		Timestamp:     int64(ts),
		Payload:       payload,
	}, true
}

func finiteNumber(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Persist writes every event concurrently under a date-partitioned,
// randomly-suffixed key with the configured TTL. The group is awaited
// as a whole; no per-event ordering or cross-event transactionality
// exists.
func (s *Service) Persist(ctx context.Context, events []models.StoredEvent) error {
	date := s.now().UTC().Format("2006-01-02")
	ttl := time.Duration(s.cfg.EventTTLDays) * 24 * time.Hour

	g, gctx := errgroup.WithContext(ctx)
	for _, ev := range events {
		g.Go(func() error {
			buf := utils.Get()
			defer utils.Put(buf)

			if err := json.NewEncoder(buf).Encode(ev); err != nil {
				return fmt.Errorf("ingest: encode event %s: %w", ev.ID, err)
			}

			key := fmt.Sprintf("evt:%s:%s", date, uuid.New().String())
			return s.kv.Set(gctx, key, buf.String(), ttl)
		})
	}
	return g.Wait()
}
