package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Zeldorh1/omnitint-edge/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultFreeDaily       = 3
	defaultPremiumDaily    = 100
	defaultCounterTTLHours = 26
	defaultMaxBatch        = 500
	defaultEventTTLDays    = 365
)

// Config represents the complete application configuration
type Config struct {
	Server    models.ServerConfig     `yaml:"server"`
	Redis     models.RedisConfig      `yaml:"redis"`
	Auth      models.AuthConfig       `yaml:"auth"`
	Limits    models.LimitsConfig     `yaml:"limits"`
	Chat      models.ChatConfig       `yaml:"chat"`
	Providers []models.ProviderConfig `yaml:"providers"`
	Ingest    models.IngestConfig     `yaml:"ingest"`
	Trends    models.TrendsConfig     `yaml:"trends"`
}

// LoadFromFile loads configuration from a YAML file with environment variable substitution
func LoadFromFile(configPath string) (*Config, error) {
	// Validate and clean the file path to prevent directory traversal
	cleanPath := filepath.Clean(configPath)
	if strings.Contains(cleanPath, "..") {
		return nil, fmt.Errorf("invalid config path: path traversal not allowed")
	}

	ext := filepath.Ext(cleanPath)
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("invalid config file: only .yaml and .yml files are allowed")
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	content := substituteEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadEnvFiles loads environment variables from .env files in order of precedence
// Loads files in the order provided (first has highest priority)
func LoadEnvFiles(envFiles []string) {
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err == nil {
				fmt.Printf("Loaded environment variables from %s\n", envFile)
			}
		}
	}
}

// applyDefaults fills unset fields with deployment defaults.
func (c *Config) applyDefaults() {
	if c.Server.WorkerName == "" {
		c.Server.WorkerName = "omnitint-edge"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Auth.UserIDHeader == "" {
		c.Auth.UserIDHeader = "x-user-id"
	}
	if c.Auth.DeviceIDHeader == "" {
		c.Auth.DeviceIDHeader = "x-device-id"
	}
	if c.Auth.TierHeader == "" {
		c.Auth.TierHeader = "x-tier"
	}
	if c.Limits.FreeDaily <= 0 {
		c.Limits.FreeDaily = defaultFreeDaily
	}
	if c.Limits.PremiumDaily <= 0 {
		c.Limits.PremiumDaily = defaultPremiumDaily
	}
	if c.Limits.CounterTTLHours <= 0 {
		c.Limits.CounterTTLHours = defaultCounterTTLHours
	}
	if c.Chat.Temperature <= 0 {
		c.Chat.Temperature = 0.7
	}
	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = 512
	}
	if c.Ingest.MaxBatch <= 0 {
		c.Ingest.MaxBatch = defaultMaxBatch
	}
	if c.Ingest.EventTTLDays <= 0 {
		c.Ingest.EventTTLDays = defaultEventTTLDays
	}
	if c.Trends.SnapshotKey == "" {
		c.Trends.SnapshotKey = "trends:latest"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one completion provider must be configured")
	}
	for i, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if p.Kind == "" {
			return fmt.Errorf("provider %s: kind is required", p.Name)
		}
		if p.Model == "" {
			return fmt.Errorf("provider %s: model is required", p.Name)
		}
	}
	if c.Ingest.Token == "" {
		return fmt.Errorf("ingest token must be configured")
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} and ${VAR_NAME:-default} patterns with environment variables
func substituteEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::(-[^}]*))?\}`)

	return re.ReplaceAllStringFunc(content, func(match string) string {
		submatches := re.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""

		if len(submatches) > 2 && submatches[2] != "" {
			defaultValue = strings.TrimPrefix(submatches[2], "-")
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}
