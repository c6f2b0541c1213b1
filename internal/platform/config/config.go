package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration assembled from the environment
// so main stays lean.
type Config struct {
	Addr string

	// PostgresDSN enables the postgres-backed regulation store when set.
	// Empty means the in-memory store is used.
	PostgresDSN string

	Redis RedisConfig

	Screening ScreeningConfig
}

// RedisConfig controls the optional phase-result cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ScreeningConfig holds the tunable parameters of the screening engine.
// Thresholds and weights are product-tuned values, adjustable per deployment.
type ScreeningConfig struct {
	// MaxConcurrentRuns bounds the run worker pool.
	MaxConcurrentRuns int

	// SubscriberBuffer is the per-subscriber event channel capacity. A
	// subscriber that falls further behind than this drops events.
	SubscriberBuffer int

	// EnhancedThreshold and ComprehensiveThreshold gate phase escalation.
	EnhancedThreshold      float64
	ComprehensiveThreshold float64
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:        envString("LEXSCREEN_ADDR", ":8080"),
		PostgresDSN: os.Getenv("LEXSCREEN_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("LEXSCREEN_REDIS_URL"),
			PoolSize:     envInt("LEXSCREEN_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("LEXSCREEN_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Screening: ScreeningConfig{
			MaxConcurrentRuns:      envInt("LEXSCREEN_MAX_CONCURRENT_RUNS", 32),
			SubscriberBuffer:       envInt("LEXSCREEN_SUBSCRIBER_BUFFER", 16),
			EnhancedThreshold:      envFloat("LEXSCREEN_ENHANCED_THRESHOLD", 0.5),
			ComprehensiveThreshold: envFloat("LEXSCREEN_COMPREHENSIVE_THRESHOLD", 0.8),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
