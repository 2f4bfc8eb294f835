package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/restaurant-directory/internal/observability"
)

const testUserAgent = "restaurant-directory-test/1.0"

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, testUserAgent, 5*time.Second, testMetrics(), discardLogger())
}

func TestClient_Resolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Nowy Swiat 15, Warszawa, 00-029", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`[{"place_id":12345,"display_name":"Nowy Swiat 15, Warszawa","lat":"52.1","lon":"21.0"}]`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	loc, err := testClient(srv.URL).Resolve(context.Background(), "Nowy Swiat 15, Warszawa, 00-029")
	require.NoError(t, err)

	require.NotNil(t, loc)
	assert.Equal(t, 52.1, loc.Latitude)
	assert.Equal(t, 21.0, loc.Longitude)
}

func TestClient_Resolve_EmptyResultListIsNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	loc, err := testClient(srv.URL).Resolve(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestClient_Resolve_UnparsableCoordinatesAreNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"abc","lon":"21.0"}]`))
	}))
	defer srv.Close()

	loc, err := testClient(srv.URL).Resolve(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestClient_Resolve_MalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "somewhere")
	require.Error(t, err)
}

func TestClient_Resolve_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`over capacity`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Resolve(context.Background(), "somewhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Resolve_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testUserAgent, 50*time.Millisecond, testMetrics(), discardLogger())
	_, err := c.Resolve(context.Background(), "somewhere")
	require.Error(t, err)
}

func TestClient_Resolve_TakesFirstCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"52.1","lon":"21.0"},{"lat":"1.0","lon":"2.0"}]`))
	}))
	defer srv.Close()

	loc, err := testClient(srv.URL).Resolve(context.Background(), "somewhere")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 52.1, loc.Latitude)
}
