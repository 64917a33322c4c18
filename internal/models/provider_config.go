package models

// ProviderConfig describes one entry in the ordered completion-provider
// chain. Kind selects the SDK (grok, gemini, anthropic); the first entry
// is the primary provider, every later entry is a fallback.
type ProviderConfig struct {
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
	APIKey    string `json:"-" yaml:"api_key"`
	BaseURL   string `json:"base_url,omitzero" yaml:"base_url"`
	Model     string `json:"model" yaml:"model"`
	TimeoutMs int    `json:"timeout_ms,omitzero" yaml:"timeout_ms"`
}

// ChatConfig holds the fixed sampling parameters applied to every
// completion call, regardless of which provider serves it.
type ChatConfig struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxTokens   int64   `json:"max_tokens" yaml:"max_tokens"`
}
