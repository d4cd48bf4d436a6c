package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/raysh454/harplay/internal/archive"
	"github.com/raysh454/harplay/internal/filter"
	"github.com/raysh454/harplay/internal/logging"
	"github.com/raysh454/harplay/internal/scenario"
	"github.com/raysh454/harplay/internal/transform"
)

// Server is the HTTP API surface for archive conversion.
type Server struct {
	cfg       Config
	converter *scenario.Converter
	router    chi.Router
	logger    logging.Logger
}

// NewServer creates a Server that converts uploads with conv.
func NewServer(cfg Config, conv *scenario.Converter) (*Server, error) {
	if conv == nil {
		return nil, errors.New("server: nil converter")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Server{
		cfg:       cfg,
		converter: conv,
		router:    chi.NewRouter(),
		logger:    logger.With(logging.Field{Key: "component", Value: "server"}),
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Options("/v1/scenarios", s.optionsHandler("POST"))
	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.RequestsPerSecond > 0 {
			r.Use(newClientLimiter(rate.Limit(s.cfg.RequestsPerSecond), s.cfg.Burst).middleware)
		}
		r.Post("/v1/scenarios", s.handleCreateScenario)
	})
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}
	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}
	if r.ContentLength > 0 {
		fields = append(fields, logging.Field{Key: "content_length", Value: r.ContentLength})
	}

	s.logger.Debug("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := s.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", logging.Field{Key: "addr", Value: srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, resp ErrorResponse) {
	writeJSON(w, status, resp)
}

// --- HTTP handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// handleCreateScenario converts the archive in the request body. Filter
// rules come from the repeatable query parameters allow, deny and host, plus
// skip_static.
func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skipStatic := false
	if v := q.Get("skip_static"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid skip_static %q", v)})
			return
		}
		skipStatic = b
	}

	rules, err := filter.Build(q["allow"], q["deny"], q["host"], skipStatic)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	def, err := s.converter.Convert(r.Body, scenario.Options{Rules: rules})
	if err != nil {
		status, resp := errorResponse(err)
		s.logger.Warn("converting archive",
			logging.Field{Key: "status", Value: status},
			logging.Field{Key: "error", Value: err.Error()})
		writeError(w, status, resp)
		return
	}

	s.logger.Info("converted archive", logging.Field{Key: "elements", Value: len(def.Elements)})
	writeJSON(w, http.StatusOK, def)
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		malformed *archive.MalformedArchiveError
		encoding  *transform.EncodingError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, ErrorResponse{Error: fmt.Sprintf("archive exceeds %d bytes", tooLarge.Limit)}
	case errors.As(err, &malformed):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Path: malformed.Path}
	case errors.As(err, &encoding):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal error"}
	}
}
