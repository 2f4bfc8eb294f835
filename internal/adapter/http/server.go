// Package http exposes the directory as a JSON API, plus the health,
// readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/couchcryptid/restaurant-directory/internal/domain"
	"github.com/couchcryptid/restaurant-directory/internal/observability"
	"github.com/couchcryptid/restaurant-directory/internal/service"
)

// Directory is the use-case surface the handlers need.
type Directory interface {
	Create(ctx context.Context, input service.RestaurantInput) (*domain.Restaurant, error)
	Update(ctx context.Context, id int64, input service.RestaurantInput) (*domain.Restaurant, error)
	Get(ctx context.Context, id int64) (*service.RestaurantView, error)
	Delete(ctx context.Context, id int64) error
	AddReview(ctx context.Context, rv domain.Review) (*domain.Review, error)
	List(ctx context.Context, filter domain.ListFilter) (*service.ListResult, error)
}

// ReadinessChecker reports whether the service is ready to serve
// traffic; the store's Ping satisfies it.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server wires the directory routes into an http.Server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the router and middleware stack. corsOrigins lists
// the allowed origins; "*" allows any.
func NewServer(addr string, dir Directory, ready ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger, corsOrigins []string) *Server {
	s := &Server{logger: logger}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(metricsMiddleware(metrics))

	h := &handler{dir: dir, logger: logger}
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/restaurants", h.list).Methods(http.MethodGet)
	api.HandleFunc("/restaurants", h.create).Methods(http.MethodPost)
	api.HandleFunc("/restaurants/{id:[0-9]+}", h.get).Methods(http.MethodGet)
	api.HandleFunc("/restaurants/{id:[0-9]+}", h.update).Methods(http.MethodPut)
	api.HandleFunc("/restaurants/{id:[0-9]+}", h.delete).Methods(http.MethodDelete)
	api.HandleFunc("/restaurants/{id:[0-9]+}/reviews", h.addReview).Methods(http.MethodPost)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", handleReady(ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      c.Handler(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}
