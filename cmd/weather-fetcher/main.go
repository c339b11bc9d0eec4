package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-fetcher/internal/api/http"
	"github.com/i474232898/weather-fetcher/internal/config"
	"github.com/i474232898/weather-fetcher/internal/metrics"
	"github.com/i474232898/weather-fetcher/internal/weather"
	"github.com/i474232898/weather-fetcher/internal/weather/providers"
)

func main() {
	// Load configuration; a missing API key stops the process here.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	gateway := providers.NewOpenWeatherProvider(
		httpClient,
		cfg.OpenWeatherAPIKey,
		providers.WithBaseURL(cfg.OpenWeatherBaseURL),
		providers.WithPayloadLogging(cfg.LogUpstreamPayload),
	)

	service := weather.NewService(gateway)
	app := httpapi.NewApp(service, metrics.New())

	go func() {
		log.Printf("INFO: server is running on http://localhost:%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
