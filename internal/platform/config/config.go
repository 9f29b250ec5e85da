package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	platformstrings "kycdesk/pkg/platform/strings"
)

// Config aggregates application configuration values.
type Config struct {
	Server   Server         `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Store    StoreConfig    `yaml:"store"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"` // text|json
	AddSource bool   `yaml:"add_source"`
}

// StoreConfig selects the key-value backend that holds the entity desk.
type StoreConfig struct {
	Driver    string `yaml:"driver"` // memory|file|redis|postgres
	FilePath  string `yaml:"file_path"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RedisConfig configures the Redis client used by the redis store driver.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// PostgresConfig configures the postgres store driver.
type PostgresConfig struct {
	DSN          string `yaml:"dsn"`
	Table        string `yaml:"table"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// KafkaConfig configures the entity change feed. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

const (
	defaultAddr            = ":8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultLogLevel        = "info"
	defaultLogFormat       = "text"
	defaultStoreDriver     = DriverFile
	defaultStoreFile       = "kycdesk.json"
	defaultRedisPool       = 10
	defaultRedisIdle       = 2
	defaultRedisTimeout    = 3 * time.Second
	defaultPostgresTable   = "kv_store"
	defaultPostgresConns   = 5
	defaultKafkaTopic      = "kycdesk.entity-changes"
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            defaultAddr,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			RequestTimeout:  defaultRequestTimeout,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Store: StoreConfig{
			Driver:   defaultStoreDriver,
			FilePath: defaultStoreFile,
		},
		Redis: RedisConfig{
			PoolSize:     defaultRedisPool,
			MinIdleConns: defaultRedisIdle,
			DialTimeout:  defaultRedisTimeout,
			ReadTimeout:  defaultRedisTimeout,
			WriteTimeout: defaultRedisTimeout,
		},
		Postgres: PostgresConfig{
			Table:        defaultPostgresTable,
			MaxOpenConns: defaultPostgresConns,
		},
		Kafka: KafkaConfig{
			Topic: defaultKafkaTopic,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// KYCDESK_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("KYCDESK_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Store.FilePath == "" {
			return fmt.Errorf("store driver %q requires a file path", c.Store.Driver)
		}
	case DriverRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("store driver %q requires KYCDESK_REDIS_URL", c.Store.Driver)
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("store driver %q requires KYCDESK_POSTGRES_DSN", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka brokers configured without a topic")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Addr = valueOrDefault("KYCDESK_ADDR", cfg.Server.Addr)
	cfg.Logging.Level = valueOrDefault("KYCDESK_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("KYCDESK_LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.AddSource = parseBoolWithDefault("KYCDESK_LOG_SOURCE", cfg.Logging.AddSource)

	cfg.Store.Driver = strings.ToLower(valueOrDefault("KYCDESK_STORE", cfg.Store.Driver))
	cfg.Store.FilePath = valueOrDefault("KYCDESK_STORE_FILE", cfg.Store.FilePath)
	cfg.Store.KeyPrefix = valueOrDefault("KYCDESK_KEY_PREFIX", cfg.Store.KeyPrefix)

	cfg.Redis.URL = valueOrDefault("KYCDESK_REDIS_URL", cfg.Redis.URL)
	cfg.Redis.PoolSize = parseIntWithDefault("KYCDESK_REDIS_POOL_SIZE", cfg.Redis.PoolSize)
	cfg.Redis.MinIdleConns = parseIntWithDefault("KYCDESK_REDIS_MIN_IDLE", cfg.Redis.MinIdleConns)

	cfg.Postgres.DSN = valueOrDefault("KYCDESK_POSTGRES_DSN", cfg.Postgres.DSN)
	cfg.Postgres.Table = valueOrDefault("KYCDESK_POSTGRES_TABLE", cfg.Postgres.Table)

	if v := os.Getenv("KYCDESK_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = platformstrings.SplitList(v)
	}
	cfg.Kafka.Topic = valueOrDefault("KYCDESK_KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Metrics.Enabled = parseBoolWithDefault("KYCDESK_METRICS", cfg.Metrics.Enabled)

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"KYCDESK_READ_TIMEOUT", &cfg.Server.ReadTimeout},
		{"KYCDESK_WRITE_TIMEOUT", &cfg.Server.WriteTimeout},
		{"KYCDESK_IDLE_TIMEOUT", &cfg.Server.IdleTimeout},
		{"KYCDESK_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout},
		{"KYCDESK_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout},
		{"KYCDESK_REDIS_DIAL_TIMEOUT", &cfg.Redis.DialTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.target = parsed
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}
