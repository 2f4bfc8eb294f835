package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/restaurant-directory/internal/domain"
	"github.com/couchcryptid/restaurant-directory/internal/observability"
)

// RedisGeocoder wraps a Geocoder with a Redis-backed cache keyed by
// address text, for deployments running more than one instance. Cache
// errors degrade to a provider call rather than failing the lookup.
type RedisGeocoder struct {
	inner   domain.Geocoder
	rdb     *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewRedisGeocoder creates a Redis cache decorator around a geocoder.
// Entries expire after ttl; only matches are cached.
func NewRedisGeocoder(inner domain.Geocoder, rdb *redis.Client, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *RedisGeocoder {
	return &RedisGeocoder{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *RedisGeocoder) Resolve(ctx context.Context, address string) (*domain.GeoLocation, error) {
	key := cacheKey(address)

	payload, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var loc domain.GeoLocation
		if err := json.Unmarshal([]byte(payload), &loc); err == nil {
			c.metrics.GeocodeCache.WithLabelValues("redis", "hit").Inc()
			return &loc, nil
		}
		// Corrupt entry; fall through to the provider and overwrite it.
		c.logger.Warn("dropping corrupt geocode cache entry", "key", key)
	case err != redis.Nil:
		c.logger.Warn("geocode cache read failed", "error", err)
	}
	c.metrics.GeocodeCache.WithLabelValues("redis", "miss").Inc()

	loc, err := c.inner.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		if payload, err := json.Marshal(loc); err == nil {
			if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
				c.logger.Warn("geocode cache write failed", "error", err)
			}
		}
	}
	return loc, nil
}

func cacheKey(address string) string {
	return fmt.Sprintf("geocode:%s", address)
}
