// Package config loads the scheduler's knobs from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every externally tunable knob of the daemon.
type Config struct {
	// BatchSize is the maximum number of worlds per batch.
	BatchSize int
	// MinForDistribution is the world count below which a cycle runs
	// in-process.
	MinForDistribution int
	// MaxConcurrentBatches caps batch submissions per cycle and sizes the
	// in-process worker pool.
	MaxConcurrentBatches int
	// LockTTL bounds per-world and cycle locks. Keep it comfortably above
	// the worst-case single-world tick duration.
	LockTTL time.Duration
	// TickInterval is the period between dispatch cycles.
	TickInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// NATSUrl, when set, routes batches over NATS instead of the
	// in-process pool.
	NATSUrl string

	// ListenAddr serves /metrics and the report stream.
	ListenAddr string

	// TraceStdout enables the stdout span exporter.
	TraceStdout bool
}

// Default returns the configuration the scheduler ships with.
func Default() Config {
	return Config{
		BatchSize:            20,
		MinForDistribution:   5,
		MaxConcurrentBatches: 5,
		LockTTL:              60 * time.Second,
		TickInterval:         60 * time.Second,
		RedisAddr:            "localhost:6379",
		ListenAddr:           ":2112",
	}
}

// FromEnv loads configuration from environment variables, falling back to
// defaults for anything unset.
func FromEnv() Config {
	cfg := Default()

	if v := getEnvInt("BATCH_SIZE"); v > 0 {
		cfg.BatchSize = v
	}
	if v := getEnvInt("MIN_FOR_DISTRIBUTION"); v > 0 {
		cfg.MinForDistribution = v
	}
	if v := getEnvInt("MAX_CONCURRENT_BATCHES"); v > 0 {
		cfg.MaxConcurrentBatches = v
	}
	if v := getEnvInt("LOCK_TTL_SECONDS"); v > 0 {
		cfg.LockTTL = time.Duration(v) * time.Second
	}
	if v := getEnvInt("TICK_INTERVAL_SECONDS"); v > 0 {
		cfg.TickInterval = time.Duration(v) * time.Second
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := getEnvInt("REDIS_DB"); v > 0 {
		cfg.RedisDB = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATSUrl = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TRACE_STDOUT"); v == "1" || v == "true" {
		cfg.TraceStdout = true
	}

	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
