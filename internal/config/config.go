package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the agentsearch API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Retrievers RetrieversConfig `yaml:"retrievers"`
	Usage      UsageConfig      `yaml:"usage"`
	Streaming  StreamingConfig  `yaml:"streaming"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the usage counter store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RetrieversConfig holds the upstream retrieval endpoints. A retriever is
// enabled when its endpoint (or api_key for rag) is set.
type RetrieversConfig struct {
	Agentic   AgentEndpointConfig `yaml:"agentic"`
	Dataverse AgentEndpointConfig `yaml:"dataverse"`
	RAG       RAGConfig           `yaml:"rag"`
}

// AgentEndpointConfig holds one knowledge-agent endpoint.
type AgentEndpointConfig struct {
	Endpoint   string `yaml:"endpoint"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Enabled reports whether the endpoint is configured.
func (c AgentEndpointConfig) Enabled() bool { return c.Endpoint != "" }

// RAGConfig holds the OpenAI-compatible completion provider settings.
type RAGConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Enabled reports whether the RAG provider is configured.
func (c RAGConfig) Enabled() bool { return c.APIKey != "" }

// UsageConfig holds token usage metering settings.
type UsageConfig struct {
	Enabled              bool    `yaml:"enabled"`
	DailyTTLHours        int     `yaml:"daily_ttl_hours"`
	MonthlyTTLDays       int     `yaml:"monthly_ttl_days"`
	CostPerMillionTokens float64 `yaml:"cost_per_million_tokens"`
}

// StreamingConfig holds SSE delivery settings.
type StreamingConfig struct {
	ChunkWords int `yaml:"chunk_words"`
	DelayMs    int `yaml:"delay_ms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Streaming responses replay the summary with inter-chunk delays.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Retrievers.Agentic.TimeoutSec <= 0 {
		c.Retrievers.Agentic.TimeoutSec = 60
	}
	if c.Retrievers.Dataverse.TimeoutSec <= 0 {
		c.Retrievers.Dataverse.TimeoutSec = 60
	}
	if c.Retrievers.RAG.MaxTokens <= 0 {
		c.Retrievers.RAG.MaxTokens = 1024
	}
	if c.Usage.DailyTTLHours <= 0 {
		c.Usage.DailyTTLHours = 48
	}
	if c.Usage.MonthlyTTLDays <= 0 {
		c.Usage.MonthlyTTLDays = 62
	}
	if c.Streaming.ChunkWords <= 0 {
		c.Streaming.ChunkWords = 3
	}
	if c.Streaming.DelayMs <= 0 {
		c.Streaming.DelayMs = 50
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if !c.Retrievers.Agentic.Enabled() && !c.Retrievers.Dataverse.Enabled() && !c.Retrievers.RAG.Enabled() {
		return fmt.Errorf("at least one retriever must be configured")
	}
	if c.Retrievers.RAG.Enabled() && c.Retrievers.RAG.Model == "" {
		return fmt.Errorf("retrievers.rag.model is required when rag is enabled")
	}
	if c.Usage.Enabled && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required when usage metering is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
