package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Load when no OpenWeatherMap credential is set.
var ErrMissingAPIKey = errors.New("config: OPENWEATHER_API_KEY is required")

const (
	defaultBaseURL     = "https://api.openweathermap.org/data/2.5/weather"
	defaultPort        = "3000"
	defaultHTTPTimeout = "10s"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// HTTPTimeout bounds each outbound provider call.
	HTTPTimeout time.Duration

	// LogUpstreamPayload dumps raw provider bodies for diagnostics.
	LogUpstreamPayload bool

	Port string
}

// Load reads configuration from environment with sensible defaults.
// A missing API key is a startup error.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", defaultBaseURL)

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", defaultHTTPTimeout))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive, got %s", timeout)
	}
	cfg.HTTPTimeout = timeout

	cfg.LogUpstreamPayload = getenvBool("LOG_UPSTREAM_PAYLOAD", false)
	cfg.Port = getenvDefault("PORT", defaultPort)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
