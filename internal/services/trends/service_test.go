package trends

import (
	"context"
	"testing"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/store"
)

func newTestService(kv store.KV) *Service {
	return NewService(kv, models.TrendsConfig{SnapshotKey: "trends:latest"})
}

func TestMissingSnapshotYieldsEmptyFeed(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	resp := svc.Latest(context.Background())
	if resp.UpdatedAt != nil {
		t.Errorf("expected null updatedAt, got %v", *resp.UpdatedAt)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected empty items, got %d", len(resp.Items))
	}
}

func TestCorruptSnapshotYieldsEmptyFeed(t *testing.T) {
	kv := store.NewMemoryStore()
	kv.Set(context.Background(), "trends:latest", "{not json", 0)
	svc := newTestService(kv)

	resp := svc.Latest(context.Background())
	if resp.UpdatedAt != nil || len(resp.Items) != 0 {
		t.Errorf("expected empty feed on parse failure, got %+v", resp)
	}
}

func TestSnapshotSanitization(t *testing.T) {
	kv := store.NewMemoryStore()
	snapshot := `{
		"updatedAt": 1756600000000,
		"items": [
			{
				"id": 42,
				"title": "Copper glaze",
				"summary": "Warm coppers trending.",
				"score": 1.7,
				"sources": ["a", "b", "c", "d", "e", "f", "g", "h"]
			},
			{
				"id": "neg",
				"title": "Smoky lilac",
				"score": -0.3,
				"sources": [1, 2]
			}
		]
	}`
	kv.Set(context.Background(), "trends:latest", snapshot, 0)
	svc := newTestService(kv)

	resp := svc.Latest(context.Background())
	if resp.UpdatedAt == nil || *resp.UpdatedAt != 1756600000000 {
		t.Fatalf("unexpected updatedAt: %v", resp.UpdatedAt)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}

	first := resp.Items[0]
	if first.ID != "42" {
		t.Errorf("expected numeric id coerced to string, got %q", first.ID)
	}
	if first.Score != 1 {
		t.Errorf("expected score clamped to 1, got %f", first.Score)
	}
	if len(first.Sources) != 6 {
		t.Errorf("expected sources truncated to 6, got %d", len(first.Sources))
	}

	second := resp.Items[1]
	if second.Score != 0 {
		t.Errorf("expected negative score clamped to 0, got %f", second.Score)
	}
	if second.Sources[0] != "1" {
		t.Errorf("expected numeric source coerced to string, got %q", second.Sources[0])
	}
	if second.Summary != "" {
		t.Errorf("expected missing summary to be empty, got %q", second.Summary)
	}
}
