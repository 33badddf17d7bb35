package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.BatchSize != 20 || cfg.MinForDistribution != 5 || cfg.MaxConcurrentBatches != 5 {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.LockTTL != 60*time.Second || cfg.TickInterval != 60*time.Second {
		t.Fatalf("durations: %+v", cfg)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("BATCH_SIZE", "50")
	t.Setenv("MIN_FOR_DISTRIBUTION", "10")
	t.Setenv("LOCK_TTL_SECONDS", "120")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("TRACE_STDOUT", "true")

	cfg := FromEnv()
	if cfg.BatchSize != 50 || cfg.MinForDistribution != 10 {
		t.Fatalf("ints: %+v", cfg)
	}
	if cfg.LockTTL != 120*time.Second {
		t.Fatalf("ttl: %v", cfg.LockTTL)
	}
	if cfg.RedisAddr != "redis.internal:6380" {
		t.Fatalf("redis addr: %s", cfg.RedisAddr)
	}
	if !cfg.TraceStdout {
		t.Fatal("trace flag not parsed")
	}
	// untouched knobs keep their defaults
	if cfg.MaxConcurrentBatches != 5 {
		t.Fatalf("max batches: %d", cfg.MaxConcurrentBatches)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("BATCH_SIZE", "not-a-number")
	cfg := FromEnv()
	if cfg.BatchSize != 20 {
		t.Fatalf("garbage env leaked: %d", cfg.BatchSize)
	}
}
