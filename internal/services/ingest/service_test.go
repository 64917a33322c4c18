package ingest

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/store"
)

func newTestService(kv store.KV) *Service {
	return NewService(kv, models.IngestConfig{
		Token:        "test-token",
		MaxBatch:     500,
		EventTTLDays: 365,
	})
}

func validRawEvent(id, typ string) map[string]any {
	return map[string]any{
		"v":    float64(1),
		"id":   id,
		"type": typ,
		"ts":   float64(1700000000000),
	}
}

func TestAuthorize(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	if !svc.Authorize("test-token") {
		t.Error("expected correct token to be accepted")
	}
	if svc.Authorize("wrong-token") {
		t.Error("expected wrong token to be rejected")
	}
	if svc.Authorize("") {
		t.Error("expected empty token to be rejected")
	}
}

func TestPrepareBatchTruncatesToHardCap(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	batch := make([]any, 600)
	for i := range batch {
		batch[i] = validRawEvent("e", "app.session")
	}

	events := svc.PrepareBatch(batch)
	if len(events) != 500 {
		t.Errorf("expected 500 events after truncation, got %d", len(events))
	}
}

func TestPrepareBatchDropsUnknownTypes(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	batch := []any{
		validRawEvent("e1", "made.up.type"),
		validRawEvent("e2", "app.session"),
	}

	events := svc.PrepareBatch(batch)
	if len(events) != 1 {
		t.Fatalf("expected 1 surviving event, got %d", len(events))
	}
	if events[0].ID != "e2" {
		t.Errorf("expected e2 to survive, got %s", events[0].ID)
	}
}

func TestPrepareBatchDropsMalformedShapes(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	batch := []any{
		"not an object",
		map[string]any{"v": "1", "id": "e1", "type": "app.session", "ts": float64(1)},
		map[string]any{"v": float64(1), "id": "", "type": "app.session", "ts": float64(1)},
		map[string]any{"v": float64(1), "id": "e3", "type": "app.session"},
		validRawEvent("e4", "tryon.apply"),
	}

	events := svc.PrepareBatch(batch)
	if len(events) != 1 {
		t.Fatalf("expected only the well-formed event to survive, got %d", len(events))
	}
	if events[0].ID != "e4" {
		t.Errorf("expected e4, got %s", events[0].ID)
	}
}

func TestPrepareBatchSanitizesPayload(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	raw := validRawEvent("e1", "app.session")
	raw["payload"] = map[string]any{"foo": "bar", "photo": "xxx"}

	events := svc.PrepareBatch([]any{raw})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Payload["foo"] != "bar" {
		t.Errorf("expected foo preserved, got %v", events[0].Payload["foo"])
	}
	if _, ok := events[0].Payload["photo"]; ok {
		t.Error("expected photo key to be absent from prepared event")
	}
}

func TestPersistWritesDatePartitionedKeys(t *testing.T) {
	kv := store.NewMemoryStore()
	svc := newTestService(kv)

	events := svc.PrepareBatch([]any{
		validRawEvent("e1", "app.session"),
		validRawEvent("e2", "tryon.share"),
	})
	if err := svc.Persist(context.Background(), events); err != nil {
		t.Fatalf("unexpected persist error: %v", err)
	}

	keys := kv.Keys("evt:")
	if len(keys) != 2 {
		t.Fatalf("expected 2 stored events, got %d", len(keys))
	}
	for _, key := range keys {
		if strings.Count(key, ":") != 2 {
			t.Errorf("expected evt:<date>:<suffix> key shape, got %s", key)
		}
	}
}

func TestPersistedRecordIsFullySanitized(t *testing.T) {
	kv := store.NewMemoryStore()
	svc := newTestService(kv)

	raw := validRawEvent("e1", "app.session")
	raw["payload"] = map[string]any{"foo": "bar", "photo": "xxx"}

	events := svc.PrepareBatch([]any{raw})
	if err := svc.Persist(context.Background(), events); err != nil {
		t.Fatalf("unexpected persist error: %v", err)
	}

	keys := kv.Keys("evt:")
	if len(keys) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(keys))
	}

	stored, err := kv.Get(context.Background(), keys[0])
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}

	var record models.StoredEvent
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		t.Fatalf("stored record is not valid JSON: %v", err)
	}
	if record.Payload["foo"] != "bar" {
		t.Errorf("expected foo kept in stored payload, got %v", record.Payload["foo"])
	}
	if _, ok := record.Payload["photo"]; ok {
		t.Error("expected photo key absent from stored payload")
	}
}
