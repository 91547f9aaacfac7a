package server

import (
	"context"
	"encoding/json"
	"errors"
	logger "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	sheetdash "github.com/ideamans/go-sheetdash"
)

var log = logger.New(logger.Writer(), "[SERVER] ", logger.LstdFlags|logger.Lmsgprefix)

// ISO 8601 with milliseconds, always UTC
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Server serves the dashboard API and its static assets
type Server struct {
	config   *sheetdash.Config
	resolver *sheetdash.SheetIDResolver
	source   sheetdash.Source // nil when no credentials are available
	now      func() time.Time
	router   *chi.Mux
}

// Option customises a Server
type Option func(*Server)

// WithClock replaces the clock used for response timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a server. source may be nil, in which case data requests
// report SERVER_NOT_CONFIGURED. A resolver without a store gets one backed by
// config.OverrideFile; the caller's resolver is not modified.
func New(config *sheetdash.Config, resolver *sheetdash.SheetIDResolver, source sheetdash.Source, opts ...Option) *Server {
	r := *resolver
	if r.Store == nil {
		r.Store = sheetdash.NewOverrideStore(config.OverrideFile)
	}

	s := &Server{
		config:   config,
		resolver: &r,
		source:   source,
		now:      time.Now,
		router:   chi.NewRouter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoCache)

		r.Get("/data", s.handleData)
		r.Get("/config", s.handleGetConfig)
		r.Post("/save-config", s.handleSaveConfig)
	})

	s.router.NotFound(s.handleStatic)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured port until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		log.Printf("shutting down")
		return srv.Shutdown(shutdown)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
