package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"elitestay/internal/cache"
	"elitestay/internal/database"
	"elitestay/internal/mail"
	"elitestay/internal/messaging"
	"elitestay/internal/search"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	JWTSecret string

	// Уведомления и сверка бронирований
	NotifyTimeout       time.Duration
	ReconcileInterval   time.Duration
	ReconcilePurge      bool
	ReconcileOperatorID string
	ReconcileWorkers    int

	// Рекомендации
	RecommendationLimit   int
	RecommendationRefresh time.Duration
	RecommendationTTL     time.Duration

	Database      database.Config
	NATS          messaging.Config
	Valkey        cache.Config
	Elasticsearch search.Config
	SMTP          mail.Config
}

// Load загружает конфигурацию из переменных окружения (и .env, если он есть)
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		JWTSecret: getEnv("JWT_SECRET", "elitestay-dev-secret"),

		NotifyTimeout:       time.Duration(getEnvInt("NOTIFY_TIMEOUT_SEC", 5)) * time.Second,
		ReconcileInterval:   time.Duration(getEnvInt("RECONCILE_INTERVAL_SEC", 3600)) * time.Second,
		ReconcilePurge:      getEnvBool("RECONCILE_PURGE_EXPIRED", false),
		ReconcileOperatorID: getEnv("RECONCILE_OPERATOR_ID", "system"),
		ReconcileWorkers:    getEnvInt("RECONCILE_WORKERS", 8),

		RecommendationLimit:   getEnvInt("RECOMMENDATION_LIMIT", 100),
		RecommendationRefresh: time.Duration(getEnvInt("RECOMMENDATION_REFRESH_SEC", 300)) * time.Second,
		RecommendationTTL:     time.Duration(getEnvInt("RECOMMENDATION_CACHE_TTL_SEC", 600)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "elitestay"),
			Password:           getEnv("DB_PASSWORD", "elitestay"),
			DBName:             getEnv("DB_NAME", "elitestay"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			Enabled:   getEnvBool("NATS_ENABLED", false),
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "elitestay"),
			ClientID:  getEnv("NATS_CLIENT_ID", "elitestay-api"),
		},

		Valkey: cache.Config{
			Enabled:  getEnvBool("VALKEY_ENABLED", false),
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
		},

		Elasticsearch: search.Config{
			Enabled:    getEnvBool("ELASTICSEARCH_ENABLED", false),
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Index:      getEnv("ELASTICSEARCH_INDEX", "room_types"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
			Timeout:    getEnvDuration("ELASTICSEARCH_TIMEOUT", 30*time.Second),
		},

		SMTP: mail.Config{
			Enabled:  getEnvBool("SMTP_ENABLED", false),
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@elitestay.local"),
		},
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
