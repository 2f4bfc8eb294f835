// Package nominatim implements domain.Geocoder against a
// Nominatim-compatible search endpoint, plus caching decorators that
// de-duplicate provider calls for repeated address text.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/restaurant-directory/internal/domain"
	"github.com/couchcryptid/restaurant-directory/internal/observability"
)

// DefaultBaseURL is the public Nominatim instance. Production
// deployments should point at their own instance and must set a
// descriptive User-Agent per the provider's usage policy.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client implements domain.Geocoder using the Nominatim search API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. The timeout bounds
// every lookup; userAgent identifies this service to the provider.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve looks up the first candidate match for the address text.
// A nil location with nil error means the provider found no usable
// candidate: an empty result list or coordinate strings that do not
// parse as decimals. Transport failures and non-2xx statuses return an
// error instead, so callers can tell "no match" from "lookup broken".
func (c *Client) Resolve(ctx context.Context, address string) (*domain.GeoLocation, error) {
	params := url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}
	fullURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var candidates []candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(candidates) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("no_match").Inc()
		return nil, nil
	}

	// Nominatim returns coordinates as decimal strings; ParseFloat is
	// locale-invariant so "52.1" parses the same on every host.
	first := candidates[0]
	lat, latErr := strconv.ParseFloat(first.Lat, 64)
	lon, lonErr := strconv.ParseFloat(first.Lon, 64)
	if latErr != nil || lonErr != nil {
		c.logger.Warn("unparsable coordinates in geocoder response",
			"lat", first.Lat,
			"lon", first.Lon,
		)
		c.metrics.GeocodeRequests.WithLabelValues("no_match").Inc()
		return nil, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("match").Inc()
	return &domain.GeoLocation{Latitude: lat, Longitude: lon}, nil
}

// Nominatim API response types.

type candidate struct {
	PlaceID     json.Number `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
}
