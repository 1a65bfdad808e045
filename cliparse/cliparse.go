package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Persistence backends
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

const (
	DefaultPort      = 3000
	DefaultDataFile  = "polls.json"
	DefaultAMQPQueue = "poll-events"
)

type Config struct {
	Port          int    `yaml:"port"`
	Backend       string `yaml:"backend"`
	DataFile      string `yaml:"data_file"`
	DatabaseURL   string `yaml:"database_url"`
	RedisURL      string `yaml:"redis_url"`
	AMQPURL       string `yaml:"amqp_url"`
	AMQPQueue     string `yaml:"amqp_queue"`
	AllowedOrigin string `yaml:"allowed_origin"`
	LogFormat     string `yaml:"log_format"`
}

// ParseFlags builds the config from CLI flags, then environment variables,
// then an optional YAML file, then defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var configFile string

	fs := flag.NewFlagSet("quickly-poll", flag.ContinueOnError)

	fs.StringVar(&configFile, "c", "", "YAML config file")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.AllowedOrigin, "origin", "", "CORS allowed origin")

	// Storage
	fs.StringVar(&cfg.Backend, "b", "", "Persistence backend (file, sqlite, postgres, redis)")
	fs.StringVar(&cfg.DataFile, "f", "", "Data file for the file backend")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL for sqlite/postgres")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL")

	// Events
	fs.StringVar(&cfg.AMQPURL, "amqp", "", "RabbitMQ URL (events disabled when empty)")
	fs.StringVar(&cfg.AMQPQueue, "queue", "", "RabbitMQ queue names, comma-separated")

	fs.StringVar(&cfg.LogFormat, "log", "", "Log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		}
	}
	envString(&cfg.AllowedOrigin, "CORS_ORIGIN")
	envString(&cfg.Backend, "STORE_BACKEND")
	envString(&cfg.DataFile, "DATA_FILE")
	envString(&cfg.DatabaseURL, "DATABASE_URL")
	envString(&cfg.RedisURL, "REDIS_URL")
	envString(&cfg.AMQPURL, "RABBITMQ_URL")
	envString(&cfg.AMQPQueue, "RABBITMQ_QUEUE")
	envString(&cfg.LogFormat, "LOG_FORMAT")

	// Then the YAML file
	if configFile == "" {
		configFile = os.Getenv("CONFIG_FILE")
	}
	if configFile != "" {
		fileCfg, err := LoadFile(configFile)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fileCfg)
	}

	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the backend has what it needs.
func Validate(cfg Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}

	switch cfg.Backend {
	case BackendFile:
		if cfg.DataFile == "" {
			return errors.New("data file required for file backend (use -f or DATA_FILE env)")
		}
	case BackendSQLite, BackendPostgres:
		if cfg.DatabaseURL == "" {
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return errors.New("redis URL required (use -redis or REDIS_URL env)")
		}
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return nil
}

// AMQPQueues splits AMQPQueue on commas; each queue gets every event.
func (c Config) AMQPQueues() []string {
	var queues []string
	for _, q := range strings.Split(c.AMQPQueue, ",") {
		if q = strings.TrimSpace(q); q != "" {
			queues = append(queues, q)
		}
	}
	return queues
}

func envString(dst *string, key string) {
	if *dst == "" {
		*dst = os.Getenv(key)
	}
}

// merge fills fields still empty in cfg from fallback.
func merge(cfg, fallback Config) Config {
	if cfg.Port == 0 {
		cfg.Port = fallback.Port
	}
	pairs := []struct{ dst, src *string }{
		{&cfg.Backend, &fallback.Backend},
		{&cfg.DataFile, &fallback.DataFile},
		{&cfg.DatabaseURL, &fallback.DatabaseURL},
		{&cfg.RedisURL, &fallback.RedisURL},
		{&cfg.AMQPURL, &fallback.AMQPURL},
		{&cfg.AMQPQueue, &fallback.AMQPQueue},
		{&cfg.AllowedOrigin, &fallback.AllowedOrigin},
		{&cfg.LogFormat, &fallback.LogFormat},
	}
	for _, p := range pairs {
		if *p.dst == "" {
			*p.dst = *p.src
		}
	}
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFile
	}
	if cfg.AMQPQueue == "" {
		cfg.AMQPQueue = DefaultAMQPQueue
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}
