package models

// StoredEvent is the sanitized form of a client telemetry event as it
// is persisted. Events are append-only: no update or delete exists, and
// every record self-expires via the store TTL.
type StoredEvent struct {
	SchemaVersion int            `json:"v"`
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Timestamp     int64          `json:"ts"`
	Payload       map[string]any `json:"payload,omitempty"`
	ReceivedAt    int64          `json:"receivedAt"`
}

// SyncResponse is the POST /sync payload. Stored may be less than the
// submitted batch size: invalid or unknown-type events are dropped
// silently.
type SyncResponse struct {
	OK     bool `json:"ok"`
	Stored int  `json:"stored"`
}
