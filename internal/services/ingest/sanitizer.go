package ingest

import "strings"

const maxArrayElements = 64

// blockedKeyFragments marks payload keys that suggest binary or image
// content. Matching keys are removed entirely, value included.
var blockedKeyFragments = []string{"image", "base64", "photo", "screenshot"}

func keyBlocked(key string) bool {
	lower := strings.ToLower(key)
	for _, frag := range blockedKeyFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// SanitizePayload recursively sanitizes a decoded event payload.
// Scalars pass through, arrays recurse and are truncated to 64
// elements, object keys suggesting media content are dropped with their
// values, and unsupported value types become absent.
func SanitizePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		if keyBlocked(k) {
			continue
		}
		if sv, ok := sanitizeValue(v); ok {
			out[k] = sv
		}
	}
	return out
}

func sanitizeValue(v any) (any, bool) {
	switch val := v.(type) {
	case string, bool,
		float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return val, true
	case []any:
		n := len(val)
		if n > maxArrayElements {
			n = maxArrayElements
		}
		out := make([]any, 0, n)
		for _, item := range val[:n] {
			if sv, ok := sanitizeValue(item); ok {
				out = append(out, sv)
			}
		}
		return out, true
	case map[string]any:
		return SanitizePayload(val), true
	default:
		// null, functions-become-null in client JSON, anything else.
		return nil, false
	}
}
