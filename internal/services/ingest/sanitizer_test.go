package ingest

import (
	"testing"
)

func TestSanitizePayloadStripsMediaKeys(t *testing.T) {
	payload := map[string]any{
		"foo":           "bar",
		"photo":         "xxx",
		"profileImage":  "data:...",
		"Base64Blob":    "abcd",
		"ScreenshotURL": "https://example.com/s.png",
	}

	out := SanitizePayload(payload)

	if out["foo"] != "bar" {
		t.Errorf("expected foo to survive, got %v", out["foo"])
	}
	for _, key := range []string{"photo", "profileImage", "Base64Blob", "ScreenshotURL"} {
		if _, ok := out[key]; ok {
			t.Errorf("expected %s to be removed", key)
		}
	}
}

func TestSanitizePayloadStripsNestedKeys(t *testing.T) {
	payload := map[string]any{
		"level1": map[string]any{
			"level2": map[string]any{
				"photoUri": "file://x.jpg",
				"shade":    "auburn",
			},
		},
	}

	out := SanitizePayload(payload)

	level2 := out["level1"].(map[string]any)["level2"].(map[string]any)
	if _, ok := level2["photoUri"]; ok {
		t.Error("expected photoUri three levels deep to be absent")
	}
	if level2["shade"] != "auburn" {
		t.Errorf("expected sibling key to be preserved, got %v", level2["shade"])
	}
}

func TestSanitizePayloadTruncatesArrays(t *testing.T) {
	arr := make([]any, 100)
	for i := range arr {
		arr[i] = float64(i)
	}

	out := SanitizePayload(map[string]any{"samples": arr})

	got := out["samples"].([]any)
	if len(got) != maxArrayElements {
		t.Errorf("expected array truncated to %d, got %d", maxArrayElements, len(got))
	}
}

func TestSanitizePayloadRecursesIntoArrays(t *testing.T) {
	payload := map[string]any{
		"entries": []any{
			map[string]any{"screenshot": "x", "name": "bob"},
		},
	}

	out := SanitizePayload(payload)

	entry := out["entries"].([]any)[0].(map[string]any)
	if _, ok := entry["screenshot"]; ok {
		t.Error("expected screenshot key inside array element to be removed")
	}
	if entry["name"] != "bob" {
		t.Errorf("expected name to survive, got %v", entry["name"])
	}
}

func TestSanitizePayloadDropsUnsupportedTypes(t *testing.T) {
	payload := map[string]any{
		"valid":   true,
		"nothing": nil,
	}

	out := SanitizePayload(payload)

	if out["valid"] != true {
		t.Errorf("expected bool to pass through, got %v", out["valid"])
	}
	if _, ok := out["nothing"]; ok {
		t.Error("expected null value to be absent")
	}
}
