package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env              string
	HTTPAddr         string
	InventoryBaseURL string
	InventoryTimeout time.Duration
	MongoURI         string
	MongoDB          string
	RedisAddr        string
	MarkerTTL        time.Duration
	KafkaBrokers     []string
	KafkaTopicPrefix string
	SyncPollInterval time.Duration
}

// Load parses configuration from the current environment. Only the
// inventory service address is mandatory; mongo, redis and kafka are
// optional integrations and the service runs degraded without them.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		InventoryBaseURL: os.Getenv("INVENTORY_BASE_URL"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "ratedesk"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
	}

	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	timeout, err := parseDurationEnv("INVENTORY_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.InventoryTimeout = timeout

	poll, err := parseDurationEnv("SYNC_POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.SyncPollInterval = poll

	ttl, err := parseDurationEnv("MARKER_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.MarkerTTL = ttl

	if cfg.InventoryBaseURL == "" {
		return Config{}, fmt.Errorf("INVENTORY_BASE_URL is required")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
