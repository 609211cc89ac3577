package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// RAG backend connection
	BackendURL  string
	HTTPTimeout time.Duration

	// Question answering
	TopK int

	// Upload limits
	MaxUploadBytes int64

	// Split layout bounds (percent of container width)
	SplitInitialPct float64
	SplitMinPct     float64
	SplitMaxPct     float64

	// Stream viewer: what happens to seeks before the player is ready.
	// "drop" matches the reference behavior; "buffer" applies the latest
	// pre-ready request once the player reports in.
	PreReadySeek string

	// Bookmark reveal emphasis duration
	EmphasisDuration time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		BackendURL:  envOr("BACKEND_URL", "http://localhost:8000"),
		HTTPTimeout: envDuration("HTTP_TIMEOUT", 120*time.Second),

		TopK: envInt("TOP_K", 3),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 26214400), // 25MB

		SplitInitialPct: envFloat("SPLIT_INITIAL_PCT", 50),
		SplitMinPct:     envFloat("SPLIT_MIN_PCT", 25),
		SplitMaxPct:     envFloat("SPLIT_MAX_PCT", 75),

		PreReadySeek: envOr("PRE_READY_SEEK", "drop"),

		EmphasisDuration: envDuration("EMPHASIS_DURATION", 2*time.Second),
	}

	if cfg.TopK < 1 || cfg.TopK > 10 {
		cfg.TopK = 3
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 26214400
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 120 * time.Second
	}
	if cfg.EmphasisDuration <= 0 {
		cfg.EmphasisDuration = 2 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.PreReadySeek != "drop" && c.PreReadySeek != "buffer" {
		return fmt.Errorf("PRE_READY_SEEK must be \"drop\" or \"buffer\", got %q", c.PreReadySeek)
	}
	if c.SplitMinPct >= c.SplitMaxPct {
		return fmt.Errorf("SPLIT_MIN_PCT must be below SPLIT_MAX_PCT")
	}
	return nil
}

func envOr(key, fallback string) string {
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
