package config

import (
	"os"
	"strconv"
	"time"

	infraconfig "swapquote-service/internal/infrastructure/config"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port            string
	Storage         string
	DatabaseURL     string
	SessionIdleTTL  time.Duration
	RefreshEvery    time.Duration
	SettleDelay     time.Duration
	ShutdownTimeout time.Duration
	// Price feed
	PriceFeed    string
	PriceFeedURL string
	PriceTTL     time.Duration
	PriceTimeout time.Duration
	// Redis (idempotency)
	IdempotencyBackend string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisTTL           time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func msDef(key string, def int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, ""), def)) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", infraconfig.DefaultHTTPPort),
		Storage:            getEnv("STORAGE", "memory"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		SessionIdleTTL:     msDef("SESSION_IDLE_TTL_MS", 1800000),
		RefreshEvery:       msDef("REFRESH_EVERY_MS", 60000),
		SettleDelay:        msDef("SETTLE_DELAY_MS", 1000),
		ShutdownTimeout:    msDef("SHUTDOWN_TIMEOUT_MS", 10000),
		PriceFeed:          getEnv("PRICE_FEED", "http"),
		PriceFeedURL:       getEnv("PRICE_FEED_URL", "https://interview.switcheo.com/prices.json"),
		PriceTTL:           msDef("PRICE_TTL_MS", 60000),
		PriceTimeout:       msDef("PRICE_TIMEOUT_MS", 10000),
		IdempotencyBackend: getEnv("IDEMPOTENCY_BACKEND", "none"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:           msDef("IDEMPOTENCY_TTL_MS", 86400000),
	}
}
