package models

// LimitsConfig holds the daily quota ceilings. Quotas reset at UTC
// midnight; counters self-expire after CounterTTLHours.
type LimitsConfig struct {
	FreeDaily       int64 `json:"free_daily" yaml:"free_daily"`
	PremiumDaily    int64 `json:"premium_daily" yaml:"premium_daily"`
	GlobalDaily     int64 `json:"global_daily,omitzero" yaml:"global_daily"`
	CounterTTLHours int   `json:"counter_ttl_hours,omitzero" yaml:"counter_ttl_hours"`
}

// AuthConfig configures identity resolution. JWTSecret enables the
// signed-identity provider; empty means header-declared identity only.
type AuthConfig struct {
	UserIDHeader   string `json:"user_id_header,omitzero" yaml:"user_id_header"`
	DeviceIDHeader string `json:"device_id_header,omitzero" yaml:"device_id_header"`
	TierHeader     string `json:"tier_header,omitzero" yaml:"tier_header"`
	JWTSecret      string `json:"-" yaml:"jwt_secret"`
}

// IngestConfig configures the telemetry ingest endpoint.
type IngestConfig struct {
	Token        string `json:"-" yaml:"token"`
	MaxBatch     int    `json:"max_batch,omitzero" yaml:"max_batch"`
	EventTTLDays int    `json:"event_ttl_days,omitzero" yaml:"event_ttl_days"`
}

// TrendsConfig configures the cached trend feed.
type TrendsConfig struct {
	SnapshotKey string `json:"snapshot_key,omitzero" yaml:"snapshot_key"`
}
