// Package api - Thin, deterministic API layer
// The API is only responsible for input normalization, engine calls and
// output serialization. It never performs chart calculations itself.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"astrochart/api/envelope"
	"astrochart/core/engine"
	"astrochart/core/output"
	"astrochart/internal/cache"
	apperrors "astrochart/internal/errors"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Options configures the server
type Options struct {
	Version string

	// Cache stores rendered responses; nil disables caching
	Cache cache.Store

	Logger *zap.Logger

	// Audit receives one entry per chart request; nil logs through Logger
	Audit envelope.AuditLogger

	// NewRequestID generates request IDs when the client sent none
	NewRequestID func() string
}

// Server is the API server
type Server struct {
	engine  *engine.Engine
	json    *output.JSONFormatter
	cache   cache.Store
	logger  *zap.Logger
	audit   envelope.AuditLogger
	version string
	mux     *http.ServeMux

	newRequestID func() string
}

// NewServer creates a new API server over an engine
func NewServer(eng *engine.Engine, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Cache
	if store == nil {
		store = cache.Nop{}
	}
	audit := opts.Audit
	if audit == nil {
		audit = envelope.ZapAuditLogger{Logger: logger.Named("audit")}
	}
	newID := opts.NewRequestID
	if newID == nil {
		newID = uuid.NewString
	}

	s := &Server{
		engine:       eng,
		json:         output.NewJSONFormatter(false),
		cache:        store,
		logger:       logger,
		audit:        audit,
		version:      opts.Version,
		mux:          http.NewServeMux(),
		newRequestID: newID,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Chart endpoints
	s.mux.HandleFunc("POST /natal-chart", s.handleNatal)
	s.mux.HandleFunc("POST /transits", s.handleTransits)
	s.mux.HandleFunc("POST /progressions", s.handleProgressions)
	s.mux.HandleFunc("POST /solar-return", s.handleSolarReturn)
	s.mux.HandleFunc("POST /lunar-return", s.handleLunarReturn)
	s.mux.HandleFunc("POST /fixed-stars", s.handleFixedStars)

	// Supporting endpoints
	s.mux.HandleFunc("GET /config", s.handleConfig)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

type ctxKey struct{}

// requestID returns the ID assigned to the request by ServeHTTP
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// statusRecorder captures the status written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ServeHTTP assigns a request ID, dispatches and logs the request
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = s.newRequestID()
	}
	w.Header().Set("X-Request-ID", id)
	r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	s.logger.Info("http request",
		zap.String("request_id", id),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)),
	)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.TypeInput, "invalid JSON body", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("response encoding failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.writeBody(w, append(body, '\n'), status)
}

func (s *Server) writeBody(w http.ResponseWriter, body []byte, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("response write failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", requestID(r.Context())), zap.Error(err))
		message = "internal error"
	}
	s.writeJSON(w, ErrorResponse{Error: ErrorBody{
		Code:      string(apperrors.TypeOf(err)),
		Message:   message,
		RequestID: requestID(r.Context()),
	}}, status)
}

// statusFor maps an error category onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	switch apperrors.TypeOf(err) {
	case apperrors.TypeInput:
		return http.StatusBadRequest
	case apperrors.TypeNotFound:
		return http.StatusNotFound
	case apperrors.TypeNotSupported:
		return http.StatusUnprocessableEntity
	case apperrors.TypeProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
