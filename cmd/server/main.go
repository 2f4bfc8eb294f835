// Command server runs the restaurant directory HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	httpadapter "github.com/couchcryptid/restaurant-directory/internal/adapter/http"
	"github.com/couchcryptid/restaurant-directory/internal/adapter/nominatim"
	"github.com/couchcryptid/restaurant-directory/internal/adapter/postgres"
	"github.com/couchcryptid/restaurant-directory/internal/config"
	"github.com/couchcryptid/restaurant-directory/internal/domain"
	"github.com/couchcryptid/restaurant-directory/internal/observability"
	"github.com/couchcryptid/restaurant-directory/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	geocoder := buildGeocoder(cfg, metrics, logger)

	directory := service.New(store, geocoder, clockwork.NewRealClock(), logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, directory, store, metrics, logger, cfg.CORSOrigins)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// buildGeocoder assembles the provider client and the configured cache
// decorator around it.
func buildGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.Geocoder {
	client := nominatim.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout, metrics, logger)

	switch cfg.GeocodeCache {
	case config.CacheRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		logger.Info("geocode cache enabled", "backend", "redis", "addr", cfg.RedisAddr, "ttl", cfg.GeocodeCacheTTL)
		return nominatim.NewRedisGeocoder(client, rdb, cfg.GeocodeCacheTTL, metrics, logger)
	case config.CacheOff:
		logger.Info("geocode cache disabled")
		return client
	default:
		logger.Info("geocode cache enabled", "backend", "memory", "size", cfg.GeocodeCacheSize)
		return nominatim.NewCachedGeocoder(client, cfg.GeocodeCacheSize, metrics)
	}
}
