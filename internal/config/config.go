package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration shared by the indexer and the search API.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Index   IndexConfig   `yaml:"index"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds search API server settings.
type HTTPConfig struct {
	Port               int `yaml:"port"`
	ReadTimeoutSec     int `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int `yaml:"write_timeout_sec"`
	ShutdownSec        int `yaml:"shutdown_timeout_sec"`
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"` // per client IP, 0 = off
}

// RedisConfig holds index store connection settings.
type RedisConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	Username         string `yaml:"username"`
	Password         string `yaml:"password"`
	TLS              bool   `yaml:"tls"`
	ConnectTimeoutMs int    `yaml:"connect_timeout_ms"`
	PoolSize         int    `yaml:"pool_size"` // indexing workers + concurrent queries
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// KafkaConfig holds change-event stream settings.
type KafkaConfig struct {
	Brokers          []string   `yaml:"brokers"`
	Topic            string     `yaml:"topic"`
	GroupID          string     `yaml:"group_id"`
	CommitIntervalMs int        `yaml:"commit_interval_ms"` // 0 commits synchronously after each read
	MinBytes         int        `yaml:"min_bytes"`
	MaxBytes         int        `yaml:"max_bytes"`
	MaxWaitMs        int        `yaml:"max_wait_ms"`
	StartOffset      string     `yaml:"start_offset"` // first | last
	TLS              bool       `yaml:"tls"`
	SASL             SASLConfig `yaml:"sasl"`
}

// SASLConfig holds broker authentication. Mechanism "" disables SASL.
type SASLConfig struct {
	Mechanism string `yaml:"mechanism"` // "" | plain
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

// IndexConfig names the FT index and the key prefix it absorbs.
type IndexConfig struct {
	Name       string `yaml:"name"`
	KeyPrefix  string `yaml:"key_prefix"`
	MaxResults int    `yaml:"max_results"`
}

// MetricsConfig holds the indexer's side listener for /metrics and /health.
type MetricsConfig struct {
	Port int `yaml:"port"` // 0 = off
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config content, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.ConnectTimeoutMs <= 0 {
		c.Redis.ConnectTimeoutMs = 2000
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Kafka.CommitIntervalMs < 0 {
		c.Kafka.CommitIntervalMs = 0
	}
	if c.Kafka.StartOffset == "" {
		c.Kafka.StartOffset = "first"
	}
	if c.Index.Name == "" {
		c.Index.Name = "search-index"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "product:"
	}
	if c.Index.MaxResults <= 0 {
		c.Index.MaxResults = 1000
	}
}

// Validate checks the settings both binaries rely on.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitPerMinute < 0 {
		return fmt.Errorf("http.rate_limit_per_minute must not be negative, got %d", c.HTTP.RateLimitPerMinute)
	}
	if c.Redis.Host == "" {
		return errors.New("redis.host is required")
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("redis.port must be between 1 and 65535, got %d", c.Redis.Port)
	}
	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("redis.pool_size must not be negative, got %d", c.Redis.PoolSize)
	}
	if !isValidIndexName(c.Index.Name) {
		return fmt.Errorf("index.name %q must match [a-zA-Z0-9_:-]+", c.Index.Name)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	switch c.Kafka.StartOffset {
	case "first", "last":
	default:
		return fmt.Errorf("kafka.start_offset must be \"first\" or \"last\", got %q", c.Kafka.StartOffset)
	}
	switch c.Kafka.SASL.Mechanism {
	case "", "plain":
	default:
		return fmt.Errorf("kafka.sasl.mechanism must be \"\" or \"plain\", got %q", c.Kafka.SASL.Mechanism)
	}
	return nil
}

// ValidateConsumer checks the stream settings only the indexer needs.
func (c *Config) ValidateConsumer() error {
	if len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required")
	}
	if c.Kafka.Topic == "" {
		return errors.New("kafka.topic is required")
	}
	if c.Kafka.GroupID == "" {
		return errors.New("kafka.group_id is required")
	}
	if c.Kafka.SASL.Mechanism == "plain" && c.Kafka.SASL.Username == "" {
		return errors.New("kafka.sasl.username is required for plain")
	}
	return nil
}

var indexNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_:-]+$`)

func isValidIndexName(s string) bool {
	return indexNameRegex.MatchString(s)
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
