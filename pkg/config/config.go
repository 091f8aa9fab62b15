// Package config loads and validates the index builder configuration from a
// YAML file with environment-variable overrides. It provides typed structs
// for the build itself and for every optional subsystem (metrics, Redis,
// PostgreSQL, Kafka).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index-builder/pkg/errors"
)

// Config is the top-level application configuration.
type Config struct {
	Indexer  IndexerConfig  `yaml:"indexer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Publish  PublishConfig  `yaml:"publish"`
}

// IndexerConfig holds the three run paths and the build tuning knobs.
type IndexerConfig struct {
	CorpusPath  string `yaml:"corpusPath"`
	OutputPath  string `yaml:"outputPath"`
	LexiconPath string `yaml:"lexiconPath"`
	OutputFile  string `yaml:"outputFile"`
	Extension   string `yaml:"extension"`
	Workers     int    `yaml:"workers"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server and the optional
// Pushgateway push at the end of a run.
type MetricsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Port           int    `yaml:"port"`
	PushgatewayURL string `yaml:"pushgatewayURL"`
	Job            string `yaml:"job"`
}

// RedisConfig holds Redis connection parameters for the posting publisher.
type RedisConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	PoolSize  int    `yaml:"poolSize"`
	KeyPrefix string `yaml:"keyPrefix"`
	BatchSize int    `yaml:"batchSize"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Enabled bool        `yaml:"enabled"`
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	IndexComplete string `yaml:"indexComplete"`
}

// PublishConfig controls retries of the post-build publishers.
type PublishConfig struct {
	MaxAttempts  int           `yaml:"maxAttempts"`
	InitialDelay time.Duration `yaml:"initialDelay"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. Missing values keep their defaults. Load does not validate; call
// Validate once flags have been applied.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		Indexer: IndexerConfig{
			OutputFile: "inverted_index.csv",
			Extension:  ".txt",
			Workers:    1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Job:     "inverted_index_build",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  10,
			KeyPrefix: "postings",
			BatchSize: 500,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "searchplatform",
			User:            "searchplatform",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				IndexComplete: "index.complete",
			},
		},
		Publish: PublishConfig{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			Timeout:      2 * time.Minute,
		},
	}
}

// Validate checks that the three run paths are set and the tuning values are
// usable. Filesystem checks happen at build time, where the failure maps to a
// specific error kind.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Indexer.CorpusPath) == "" {
		problems = append(problems, "indexer.corpusPath is required")
	}
	if strings.TrimSpace(c.Indexer.OutputPath) == "" {
		problems = append(problems, "indexer.outputPath is required")
	}
	if strings.TrimSpace(c.Indexer.LexiconPath) == "" {
		problems = append(problems, "indexer.lexiconPath is required")
	}
	if c.Indexer.Workers < 1 {
		problems = append(problems, fmt.Sprintf("indexer.workers must be >= 1, got %d", c.Indexer.Workers))
	}
	if c.Indexer.OutputFile == "" || strings.ContainsAny(c.Indexer.OutputFile, `/\`) {
		problems = append(problems, fmt.Sprintf("indexer.outputFile must be a plain file name, got %q", c.Indexer.OutputFile))
	}
	if c.Indexer.Extension != "" && !strings.HasPrefix(c.Indexer.Extension, ".") {
		problems = append(problems, fmt.Sprintf("indexer.extension must start with '.', got %q", c.Indexer.Extension))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "kafka.brokers is required when kafka is enabled")
	}
	if len(problems) > 0 {
		return apperrors.New(apperrors.ErrInvalidConfig, "", strings.Join(problems, "; "))
	}
	return nil
}

// applyEnvOverrides reads II_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("II_CORPUS_PATH"); v != "" {
		cfg.Indexer.CorpusPath = v
	}
	if v := os.Getenv("II_OUTPUT_PATH"); v != "" {
		cfg.Indexer.OutputPath = v
	}
	if v := os.Getenv("II_LEXICON_PATH"); v != "" {
		cfg.Indexer.LexiconPath = v
	}
	if v := os.Getenv("II_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.Workers = n
		}
	}
	if v := os.Getenv("II_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("II_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("II_METRICS_PUSHGATEWAY_URL"); v != "" {
		cfg.Metrics.PushgatewayURL = v
	}
	if v := os.Getenv("II_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("II_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("II_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("II_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("II_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("II_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
}
