package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
	"github.com/couchcryptid/hvac-sizing-service/internal/observability"
	"github.com/couchcryptid/hvac-sizing-service/internal/weather"
)

const version = "1.0.0"

// WeatherStore is the weather dataset the API uploads to and queries.
type WeatherStore interface {
	Ingest(ctx context.Context, raw []byte) (domain.DatasetSummary, error)
	Query(k domain.Key) weather.QueryResult
	Current() (domain.DatasetSummary, bool)
}

// Options configures the HTTP server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	UploadMaxBytes int64
}

// Server serves the calculation and weather API alongside health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer     *http.Server
	store          WeatherStore
	uploadMaxBytes int64
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewServer wires the router and middleware chain.
func NewServer(opts Options, store WeatherStore, ready sharedobs.ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		store:          store,
		uploadMaxBytes: opts.UploadMaxBytes,
		logger:         logger,
		metrics:        metrics,
	}

	r := mux.NewRouter()
	r.Use(s.instrument)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/", s.handleInfo).Methods(http.MethodGet)
	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	for _, c := range calculations {
		api.HandleFunc(c.path, s.calcHandler(c.formula, c.fn)).Methods(http.MethodPost)
	}
	api.HandleFunc("/upload-epw", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/query-epw", s.handleQuery).Methods(http.MethodPost)
	api.HandleFunc("/epw", s.handleDataset).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{logger}))(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type calculation struct {
	path    string
	formula string
	fn      func(r *http.Request) (any, error)
}

var calculations = []calculation{
	{"/volume-air-heat-gain", "volume_air_heat_gain", volumeAirHeatGain},
	{"/window-calculations", "window_calculations", windowCalculations},
	{"/volume-air-forces", "volume_air_forces", volumeAirForces},
	{"/q-from-ach", "q_from_ach", qFromACH},
	{"/by-element", "by_element", byElement},
	{"/window-p", "window_p", windowP},
	{"/solar-heat-gain", "solar_heat_gain", solarHeatGain},
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	endpoints := make([]string, 0, len(calculations)+3)
	for _, c := range calculations {
		endpoints = append(endpoints, "/api"+c.path)
	}
	endpoints = append(endpoints, "/api/upload-epw", "/api/query-epw", "/api/epw")

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "HVAC Formula Calculator API",
		"version":   version,
		"endpoints": endpoints,
	})
}

// recoveryLogger routes panics caught by the recovery middleware to slog.
type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("panic serving request", "panic", fmt.Sprint(v...))
}
