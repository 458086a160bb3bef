package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every tunable the match-core server reads from its
// environment. There is no database or auth surface here — the core's
// only external collaborator is the transport it binds to (spec.md §1).
type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Timer Subsystem durations (spec.md §4.11), loaded from the
	// environment with the spec's defaults. Package match arms its timers
	// with the timer package's fixed durations and does not read these
	// fields, so overriding them does not change timer behaviour.
	ActionTimeout      time.Duration
	DeathChoiceTimeout time.Duration
	DraftTimeout       time.Duration

	// PRNG seeding. When SeedFromEnv is true every match is seeded from
	// FixedSeed, which is what makes the end-to-end determinism scenarios
	// in spec.md §8 reproducible across runs; otherwise each match draws
	// a fresh seed at creation time.
	FixedSeed   uint64
	SeedFromEnv bool

	// Match Manager
	MaxConcurrentMatches int
}

// Load loads configuration from environment variables, applying the same
// spec-mandated defaults a client could always rely on even against a
// bare environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		ActionTimeout:      getEnvDuration("ACTION_TIMEOUT", 10000*time.Millisecond),
		DeathChoiceTimeout: getEnvDuration("DEATH_CHOICE_TIMEOUT", 5000*time.Millisecond),
		DraftTimeout:       getEnvDuration("DRAFT_TIMEOUT", 60000*time.Millisecond),

		MaxConcurrentMatches: getEnvInt("MAX_CONCURRENT_MATCHES", 4096),
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if seed := getEnv("MATCH_SEED", ""); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MATCH_SEED: %w", err)
		}
		cfg.FixedSeed = v
		cfg.SeedFromEnv = true
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
