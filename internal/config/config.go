package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the environment driven settings of the dashboard service.
type Config struct {
	AppPort string

	// ProviderMode selects the session source: "" (unconfigured, fallback
	// policy applies), "http" (remote provider) or "bridge" (local course
	// database).
	ProviderMode    string
	ProviderBaseURL string
	InternalSecret  string

	// EnableFallback permits serving the static demo catalogue when no
	// provider is available. Defaults to true.
	EnableFallback bool

	CountdownInterval time.Duration

	DatabaseURL string
	NatsURL     string
}

// Load reads the configuration from the process environment, applying
// defaults for optional values and validating the rest.
func Load() (Config, error) {
	cfg := Config{
		AppPort:           "8002",
		EnableFallback:    true,
		CountdownInterval: time.Second,
		NatsURL:           "nats://localhost:4222",
	}

	if port := strings.TrimSpace(os.Getenv("APP_PORT")); port != "" {
		cfg.AppPort = port
	}

	cfg.ProviderMode = strings.TrimSpace(os.Getenv("PROVIDER_MODE"))
	cfg.ProviderBaseURL = strings.TrimSpace(os.Getenv("PROVIDER_BASE_URL"))
	cfg.InternalSecret = os.Getenv("INTERNAL_SHARED_SECRET")

	invalid := make([]string, 0, 2)

	switch cfg.ProviderMode {
	case "", "http", "bridge":
	default:
		invalid = append(invalid, "PROVIDER_MODE")
	}
	if cfg.ProviderMode == "http" && cfg.ProviderBaseURL == "" {
		invalid = append(invalid, "PROVIDER_BASE_URL")
	}

	if v := strings.TrimSpace(os.Getenv("ENABLE_FALLBACK")); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "ENABLE_FALLBACK")
		} else {
			cfg.EnableFallback = enabled
		}
	}

	if v := strings.TrimSpace(os.Getenv("COUNTDOWN_INTERVAL")); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil || interval <= 0 {
			invalid = append(invalid, "COUNTDOWN_INTERVAL")
		} else {
			cfg.CountdownInterval = interval
		}
	}

	if natsURL := strings.TrimSpace(os.Getenv("NATS_URL")); natsURL != "" {
		cfg.NatsURL = natsURL
	}

	cfg.DatabaseURL = databaseURL()

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func databaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)
}
