package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Security    SecurityConfig  `toml:"security"`
	RateLimit   RateLimitConfig `toml:"rate_limit"`
	Insight     InsightConfig   `toml:"insight"`
	LLM         LLMConfig       `toml:"llm"`
	OpenAI      OpenAIConfig    `toml:"openai"`
	Claude      ClaudeConfig    `toml:"claude"`
	Gemini      GeminiConfig    `toml:"gemini"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// SecurityConfig controls API key checks, trusted hosts and CORS origins
type SecurityConfig struct {
	APIKey         string   `toml:"api_key"`         // Empty accepts any non-empty X-API-Key
	AllowedHosts   []string `toml:"allowed_hosts"`   // "*" allows any Host header
	AllowedOrigins []string `toml:"allowed_origins"` // "*" allows any origin
}

// RateLimitConfig holds per-client request budgets
type RateLimitConfig struct {
	RequestsPerMinute int `toml:"requests_per_minute"`
	FeedbackPerMinute int `toml:"feedback_per_minute"`
}

// InsightConfig tunes insight synthesis and its cache
type InsightConfig struct {
	CacheTTL      string  `toml:"cache_ttl"`      // Duration string (default: "5m")
	PurgeSchedule string  `toml:"purge_schedule"` // Cron with seconds field (default: every minute)
	WordLimit     int     `toml:"word_limit"`
	Temperature   float32 `toml:"temperature"`
	MaxTokens     int     `toml:"max_tokens"`
	Timeout       string  `toml:"timeout"` // Per generation call (default: "30s")
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	LLMProviderOpenAI LLMProvider = "openai"
	LLMProviderClaude LLMProvider = "claude"
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig selects the provider used for insight generation
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"`
}

// OpenAIConfig contains OpenAI chat completion configuration
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"` // Optional, for compatible gateways
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8000,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Security: SecurityConfig{
			AllowedHosts:   []string{"*"},
			AllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			FeedbackPerMinute: 10,
		},
		Insight: InsightConfig{
			CacheTTL:      "5m",
			PurgeSchedule: "0 * * * * *", // Every minute (seconds precision)
			WordLimit:     100,
			Temperature:   0.3,
			MaxTokens:     400,
			Timeout:       "30s",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderOpenAI,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4",
		},
		Claude: ClaudeConfig{
			Model: "claude-3-5-haiku-latest",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> files -> .env references -> env
// Later files override earlier files. {NAME} references in string values are
// resolved from the .env file at envPath (skipped when envPath is empty or missing).
func LoadFromFiles(envPath string, paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			logger := GetLogger()

			envMap, err := godotenv.Read(envPath)
			if err != nil {
				logger.Warn().Err(err).Str("path", envPath).Msg("Failed to read env file, skipping replacement")
			} else {
				if err := ReplaceInStruct(config, envMap, logger); err != nil {
					logger.Warn().Err(err).Msg("Failed to replace key references in config")
				}

				// Export without clobbering variables already set by the process
				if err := godotenv.Load(envPath); err != nil {
					logger.Warn().Err(err).Str("path", envPath).Msg("Failed to export env file")
				}
			}
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LUKZ_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("LUKZ_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LUKZ_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("LUKZ_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("LUKZ_LOG_OUTPUT"); output != "" {
		if outputs := splitList(output); len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("LUKZ_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Security configuration
	if apiKey := os.Getenv("LUKZ_API_KEY"); apiKey != "" {
		config.Security.APIKey = apiKey
	} else if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		config.Security.APIKey = apiKey
	}
	if hosts := os.Getenv("LUKZ_ALLOWED_HOSTS"); hosts != "" {
		config.Security.AllowedHosts = splitList(hosts)
	}
	if origins := os.Getenv("LUKZ_ALLOWED_ORIGINS"); origins != "" {
		config.Security.AllowedOrigins = splitList(origins)
	}

	// Rate limit configuration
	if rpm := os.Getenv("LUKZ_RATE_LIMIT_RPM"); rpm != "" {
		if v, err := strconv.Atoi(rpm); err == nil {
			config.RateLimit.RequestsPerMinute = v
		}
	}
	if fpm := os.Getenv("LUKZ_RATE_LIMIT_FEEDBACK_RPM"); fpm != "" {
		if v, err := strconv.Atoi(fpm); err == nil {
			config.RateLimit.FeedbackPerMinute = v
		}
	}

	// Insight configuration
	if ttl := os.Getenv("LUKZ_INSIGHT_CACHE_TTL"); ttl != "" {
		config.Insight.CacheTTL = ttl
	}
	if schedule := os.Getenv("LUKZ_INSIGHT_PURGE_SCHEDULE"); schedule != "" {
		config.Insight.PurgeSchedule = schedule
	}
	if timeout := os.Getenv("LUKZ_INSIGHT_TIMEOUT"); timeout != "" {
		config.Insight.Timeout = timeout
	}
	if temp := os.Getenv("LUKZ_INSIGHT_TEMPERATURE"); temp != "" {
		if t, err := strconv.ParseFloat(temp, 32); err == nil {
			config.Insight.Temperature = float32(t)
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("LUKZ_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
	if apiKey := firstEnv("LUKZ_OPENAI_API_KEY", "OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if model := os.Getenv("LUKZ_OPENAI_MODEL"); model != "" {
		config.OpenAI.Model = model
	}
	if apiKey := firstEnv("LUKZ_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("LUKZ_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if apiKey := firstEnv("LUKZ_GEMINI_API_KEY", "GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("LUKZ_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.FeedbackPerMinute <= 0 {
		return fmt.Errorf("rate_limit values must be positive")
	}
	if _, err := c.Insight.CacheTTLDuration(); err != nil {
		return err
	}
	if _, err := c.Insight.TimeoutDuration(); err != nil {
		return err
	}
	if err := ValidatePurgeSchedule(c.Insight.PurgeSchedule); err != nil {
		return err
	}
	switch c.LLM.DefaultProvider {
	case LLMProviderOpenAI, LLMProviderClaude, LLMProviderGemini:
	default:
		return fmt.Errorf("unsupported llm.default_provider: %q", c.LLM.DefaultProvider)
	}
	return nil
}

// CacheTTLDuration parses insight.cache_ttl
func (i InsightConfig) CacheTTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(i.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid insight.cache_ttl %q: %w", i.CacheTTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("insight.cache_ttl must be positive, got %s", i.CacheTTL)
	}
	return d, nil
}

// TimeoutDuration parses insight.timeout
func (i InsightConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(i.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid insight.timeout %q: %w", i.Timeout, err)
	}
	return d, nil
}

// ValidatePurgeSchedule validates a six-field (seconds first) cron expression
func ValidatePurgeSchedule(schedule string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid insight.purge_schedule: %w", err)
	}
	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// LogSummary writes the effective, non-secret settings at startup
func (c *Config) LogSummary(logger arbor.ILogger) {
	logger.Info().
		Str("environment", c.Environment).
		Str("host", c.Server.Host).
		Int("port", c.Server.Port).
		Str("provider", string(c.LLM.DefaultProvider)).
		Str("cache_ttl", c.Insight.CacheTTL).
		Int("rpm", c.RateLimit.RequestsPerMinute).
		Bool("api_key_configured", c.Security.APIKey != "").
		Msg("Configuration loaded")
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
