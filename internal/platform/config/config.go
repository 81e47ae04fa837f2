// Package config loads service configuration from a YAML file with
// environment variable overrides (VERIFIER_*), so deployments can ship a
// base file and tweak per environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server" yaml:"server"`
	Engine   EngineConfig   `koanf:"engine" yaml:"engine"`
	Redis    RedisConfig    `koanf:"redis" yaml:"redis"`
	Postgres PostgresConfig `koanf:"postgres" yaml:"postgres"`
	Kafka    KafkaConfig    `koanf:"kafka" yaml:"kafka"`
	Audit    AuditConfig    `koanf:"audit" yaml:"audit"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr          string `koanf:"addr" yaml:"addr"`
	JWTSigningKey string `koanf:"jwt_signing_key" yaml:"jwt_signing_key"`
}

// EngineConfig is the verification engine's tuning surface.
type EngineConfig struct {
	MaxConcurrentVerifications int64              `koanf:"max_concurrent_verifications" yaml:"max_concurrent_verifications"`
	DefaultTimeoutMS           int64              `koanf:"default_timeout_ms" yaml:"default_timeout_ms"`
	EnableCaching              bool               `koanf:"enable_caching" yaml:"enable_caching"`
	CacheTTLSeconds            int64              `koanf:"cache_ttl_seconds" yaml:"cache_ttl_seconds"`
	CacheMaxSize               int                `koanf:"cache_max_size" yaml:"cache_max_size"`
	MemoTTLSeconds             int64              `koanf:"memo_ttl_seconds" yaml:"memo_ttl_seconds"`
	ConfidenceWeights          map[string]float64 `koanf:"confidence_weights" yaml:"confidence_weights"`
}

// DefaultTimeout converts the millisecond setting to a duration.
func (e EngineConfig) DefaultTimeout() time.Duration {
	return time.Duration(e.DefaultTimeoutMS) * time.Millisecond
}

// CacheTTL converts the seconds setting to a duration.
func (e EngineConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLSeconds) * time.Second
}

// MemoTTL converts the seconds setting to a duration.
func (e EngineConfig) MemoTTL() time.Duration {
	return time.Duration(e.MemoTTLSeconds) * time.Second
}

// RedisConfig configures the distributed results cache. An empty URL means
// Redis is not configured and the process-local cache is used.
type RedisConfig struct {
	URL            string        `koanf:"url" yaml:"url"`
	PoolSize       int           `koanf:"pool_size" yaml:"pool_size"`
	MinIdleConns   int           `koanf:"min_idle_conns" yaml:"min_idle_conns"`
	DialTimeout    time.Duration `koanf:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout    time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
}

// PostgresConfig configures the audit database. Empty DSN falls back to the
// in-memory audit store.
type PostgresConfig struct {
	DSN string `koanf:"dsn" yaml:"dsn"`
}

// KafkaConfig configures the streaming audit publisher. No brokers means no
// publisher.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers" yaml:"brokers"`
	Topic   string   `koanf:"topic" yaml:"topic"`
}

// AuditConfig tunes the audit emitter.
type AuditConfig struct {
	Buffer int `koanf:"buffer" yaml:"buffer"`
}

// Default returns the configuration used when the file and environment
// provide nothing.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Engine: EngineConfig{
			MaxConcurrentVerifications: 10,
			DefaultTimeoutMS:           30_000,
			EnableCaching:              true,
			CacheTTLSeconds:            3600,
			CacheMaxSize:               1000,
			MemoTTLSeconds:             60,
			ConfidenceWeights: map[string]float64{
				"legal":      1.0,
				"financial":  1.2,
				"healthcare": 1.1,
				"insurance":  1.0,
			},
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: "verifier.audit",
		},
		Audit: AuditConfig{
			Buffer: 1024,
		},
	}
}

// Load reads configuration from the given YAML file if it exists, then
// overlays VERIFIER_* environment variables. Nested keys use underscores:
// VERIFIER_SERVER_ADDR overrides server.addr.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("VERIFIER_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "VERIFIER_"))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains workable values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Engine.MaxConcurrentVerifications <= 0 {
		return fmt.Errorf("engine.max_concurrent_verifications must be positive")
	}
	if c.Engine.DefaultTimeoutMS <= 0 {
		return fmt.Errorf("engine.default_timeout_ms must be positive")
	}
	if c.Engine.EnableCaching && c.Engine.CacheTTLSeconds <= 0 {
		return fmt.Errorf("engine.cache_ttl_seconds must be positive when caching is enabled")
	}
	for domain, weight := range c.Engine.ConfidenceWeights {
		if weight <= 0 {
			return fmt.Errorf("engine.confidence_weights[%s] must be positive", domain)
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are configured")
	}
	return nil
}
