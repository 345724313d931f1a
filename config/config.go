package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Session  SessionConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// DatabaseConfig configures the optional Postgres integration.
// An empty URL keeps the built-in catalog and disables the submission inbox.
type DatabaseConfig struct {
	URL           string
	SeedCatalog   bool
	SeedPortfolio bool
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	TopicEvents   string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
	PrometheusPort string
}

type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type CORSConfig struct {
	AllowOrigins []string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	idempotencyTTL, _ := strconv.Atoi(getEnv("IDEMPOTENCY_TTL_SECONDS", "600"))
	sessionTTL, _ := strconv.Atoi(getEnv("SESSION_IDLE_TTL_SECONDS", "1800"))
	sweepInterval, _ := strconv.Atoi(getEnv("SESSION_SWEEP_INTERVAL_SECONDS", "60"))
	if sweepInterval <= 0 {
		sweepInterval = 60
	}
	seedCatalog, _ := strconv.ParseBool(getEnv("SEED_CATALOG_FROM_DB", "false"))
	seedPortfolio, _ := strconv.ParseBool(getEnv("SEED_PORTFOLIO_FROM_DB", "false"))

	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			Env:      getEnv("ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", ""),
		},
		Database: DatabaseConfig{
			URL:           getEnv("DATABASE_URL", ""),
			SeedCatalog:   seedCatalog,
			SeedPortfolio: seedPortfolio,
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             redisDB,
			IdempotencyTTL: time.Duration(idempotencyTTL) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			TopicEvents:   getEnv("KAFKA_TOPIC_PAGE_EVENTS", "page-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "submission-inbox-group"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
			PrometheusPort: getEnv("PROMETHEUS_PORT", "9090"),
		},
		Session: SessionConfig{
			IdleTTL:       time.Duration(sessionTTL) * time.Second,
			SweepInterval: time.Duration(sweepInterval) * time.Second,
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
