// Package trends serves the read-only cached trend feed. The snapshot
// is produced by an external pipeline and read here with server-side
// clamping; availability is preferred over correctness signaling, so a
// failed read yields an empty payload rather than an error status.
package trends

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/store"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/singleflight"
)

const (
	maxSources = 6
	maxItems   = 50
)

// rawSnapshot is the loosely-typed shape the pipeline writes. Every
// field is coerced on the way out.
type rawSnapshot struct {
	UpdatedAt *int64           `json:"updatedAt"`
	Items     []map[string]any `json:"items"`
}

// Service reads and sanitizes the trend snapshot.
type Service struct {
	kv      store.KV
	cfg     models.TrendsConfig
	sfGroup singleflight.Group
}

// NewService creates a trend feed service over the given store.
func NewService(kv store.KV, cfg models.TrendsConfig) *Service {
	return &Service{kv: kv, cfg: cfg}
}

// Latest returns the sanitized trend feed. It never fails: any read or
// parse problem degrades to {updatedAt: null, items: []}. Concurrent
// calls share one store read via singleflight.
func (s *Service) Latest(ctx context.Context) models.TrendsResponse {
	v, _, _ := s.sfGroup.Do(s.cfg.SnapshotKey, func() (any, error) {
		return s.load(ctx), nil
	})
	return v.(models.TrendsResponse)
}

func (s *Service) load(ctx context.Context) models.TrendsResponse {
	empty := models.TrendsResponse{Items: []models.TrendItem{}}

	raw, err := s.kv.Get(ctx, s.cfg.SnapshotKey)
	if err != nil {
		fiberlog.Errorf("trends: snapshot read failed: %v", err)
		return empty
	}
	if raw == "" {
		return empty
	}

	var snap rawSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		fiberlog.Errorf("trends: snapshot parse failed: %v", err)
		return empty
	}

	items := make([]models.TrendItem, 0, len(snap.Items))
	for _, rawItem := range snap.Items {
		if len(items) >= maxItems {
			break
		}
		items = append(items, sanitizeItem(rawItem))
	}

	return models.TrendsResponse{
		UpdatedAt: snap.UpdatedAt,
		Items:     items,
	}
}

// sanitizeItem coerces every field: text fields become strings, score
// is clamped to [0,1], sources are stringified and truncated to six.
func sanitizeItem(raw map[string]any) models.TrendItem {
	item := models.TrendItem{
		ID:      coerceString(raw["id"]),
		Title:   coerceString(raw["title"]),
		Summary: coerceString(raw["summary"]),
		Sources: []string{},
	}

	if score, ok := raw["score"].(float64); ok {
		item.Score = clamp01(score)
	}

	if sources, ok := raw["sources"].([]any); ok {
		if len(sources) > maxSources {
			sources = sources[:maxSources]
		}
		for _, src := range sources {
			item.Sources = append(item.Sources, coerceString(src))
		}
	}

	return item
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
