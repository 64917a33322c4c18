package models

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string `json:"port,omitzero" yaml:"port"`
	WorkerName     string `json:"worker_name,omitzero" yaml:"worker_name"`
	AllowedOrigins string `json:"allowed_origins,omitzero" yaml:"allowed_origins"`
	Environment    string `json:"environment,omitzero" yaml:"environment"`
	LogLevel       string `json:"log_level,omitzero" yaml:"log_level"`
}

// RedisConfig holds connection settings for the KV store backing
// quota counters, the event log, and the trend snapshot.
type RedisConfig struct {
	Addr     string `json:"addr,omitzero" yaml:"addr"`
	Password string `json:"-" yaml:"password"`
	DB       int    `json:"db,omitzero" yaml:"db"`
}
