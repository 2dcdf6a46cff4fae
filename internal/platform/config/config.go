package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	EventsInProcess = "inprocess"
	EventsKafka     = "kafka"
	EventsSNS       = "sns"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string

	StorageDriver        string
	PostgresDSN          string
	PostgresMaxOpenConns int

	RedisAddress     string
	RedisPassword    string
	RedisDB          int
	SummaryCacheTTL  time.Duration
	JWTSecret        string
	TokenTTL         time.Duration
	AdminName        string
	AdminEmail       string
	AdminPassword    string
	UploadMaxBytes   int64
	UploadStagingDir string

	EventsDriver string
	EventsTopic  string
	KafkaBrokers []string
	AWSRegion    string
	SNSTopicARN  string

	CORSAllowedOrigins []string

	LogLevel string
	LogFile  string

	WorkerPollInterval time.Duration
	WorkerBatchSize    int
}

// Load reads an optional .env and config.yaml, then lets environment
// variables override any key (postgres.dsn becomes POSTGRES_DSN).
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		ServiceName: strings.TrimSpace(v.GetString("service_name")),
		HTTPPort:    strings.TrimSpace(v.GetString("http.port")),

		StorageDriver:        strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		PostgresDSN:          strings.TrimSpace(v.GetString("postgres.dsn")),
		PostgresMaxOpenConns: v.GetInt("postgres.max_open_conns"),

		RedisAddress:     strings.TrimSpace(v.GetString("redis.address")),
		RedisPassword:    v.GetString("redis.password"),
		RedisDB:          v.GetInt("redis.db"),
		SummaryCacheTTL:  v.GetDuration("summary_cache.ttl"),
		JWTSecret:        v.GetString("auth.jwt_secret"),
		TokenTTL:         v.GetDuration("auth.token_ttl"),
		AdminName:        strings.TrimSpace(v.GetString("auth.admin_name")),
		AdminEmail:       strings.TrimSpace(v.GetString("auth.admin_email")),
		AdminPassword:    v.GetString("auth.admin_password"),
		UploadMaxBytes:   v.GetInt64("upload.max_bytes"),
		UploadStagingDir: strings.TrimSpace(v.GetString("upload.staging_dir")),

		EventsDriver: strings.ToLower(strings.TrimSpace(v.GetString("events.driver"))),
		EventsTopic:  strings.TrimSpace(v.GetString("events.topic")),
		KafkaBrokers: splitList(v.GetString("kafka.brokers")),
		AWSRegion:    strings.TrimSpace(v.GetString("aws.region")),
		SNSTopicARN:  strings.TrimSpace(v.GetString("sns.topic_arn")),

		CORSAllowedOrigins: splitList(v.GetString("cors.allowed_origins")),

		LogLevel: strings.TrimSpace(v.GetString("logging.level")),
		LogFile:  strings.TrimSpace(v.GetString("logging.file")),

		WorkerPollInterval: v.GetDuration("worker.poll_interval"),
		WorkerBatchSize:    v.GetInt("worker.batch_size"),
	}
	if err := validateConfig(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "agentlists")
	v.SetDefault("http.port", "8080")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("redis.db", 0)
	v.SetDefault("summary_cache.ttl", 10*time.Minute)
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)
	v.SetDefault("auth.admin_name", "Administrator")
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("upload.staging_dir", "uploads")
	v.SetDefault("events.driver", EventsInProcess)
	v.SetDefault("events.topic", "agentlists.lists")
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("logging.level", "info")
	v.SetDefault("worker.poll_interval", 2*time.Second)
	v.SetDefault("worker.batch_size", 100)
}

func validateConfig(cfg Config) error {
	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("postgres.dsn is required when storage.driver is postgres")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", cfg.StorageDriver)
	}

	switch cfg.EventsDriver {
	case EventsInProcess:
	case EventsKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return errors.New("kafka.brokers is required when events.driver is kafka")
		}
	case EventsSNS:
		if cfg.SNSTopicARN == "" {
			return errors.New("sns.topic_arn is required when events.driver is sns")
		}
	default:
		return fmt.Errorf("unknown events.driver %q", cfg.EventsDriver)
	}

	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		return errors.New("auth.admin_password is required when auth.admin_email is set")
	}
	if cfg.UploadMaxBytes <= 0 {
		return errors.New("upload.max_bytes must be positive")
	}
	if cfg.WorkerPollInterval <= 0 {
		return errors.New("worker.poll_interval must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
