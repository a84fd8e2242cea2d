// Package server is the HTTP layer. Handlers stay thin: decode the request,
// call a service, encode the result. All ranking and generation logic lives
// in the service layer; this package only maps the structured error codes to
// status codes.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/catalog"
	"github.com/talentsift/talentsift/errors"
	"github.com/talentsift/talentsift/ratelimit"
	"github.com/talentsift/talentsift/service"
	"github.com/talentsift/talentsift/store"
)

// chatResource is the rate-limited bucket shared by the generation-backed
// endpoints.
const chatResource = "chat"

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ChatRateLimit caps generation-backed requests per ChatRateWindow.
	// Zero disables the limit.
	ChatRateLimit  int
	ChatRateWindow time.Duration
}

// Server routes HTTP requests to the services.
type Server struct {
	db         *store.DB
	candidates *service.CandidateService
	chat       *service.ChatService
	catalog    *catalog.Catalog
	limiter    *ratelimit.Limiter
	logger     *zap.Logger

	httpServer *http.Server
}

// New builds a server over the given collaborators.
func New(db *store.DB, candidates *service.CandidateService, chat *service.ChatService, cat *catalog.Catalog, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := ratelimit.New()
	if opts.ChatRateLimit > 0 {
		window := opts.ChatRateWindow
		if window <= 0 {
			window = time.Minute
		}
		_ = limiter.SetCapacity(chatResource, opts.ChatRateLimit, window)
	}

	s := &Server{
		db:         db,
		candidates: candidates,
		chat:       chat,
		catalog:    cat,
		limiter:    limiter,
		logger:     logger,
	}
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

// Handler returns the route table. Exposed separately so tests can drive it
// through httptest without binding a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}/candidates", s.handleGetCandidates)
	mux.HandleFunc("DELETE /jobs/{id}/candidates", s.handleDeleteCandidates)
	mux.HandleFunc("POST /chat", s.limited(s.handleChat))
	mux.HandleFunc("GET /chat/weights/{id}", s.limited(s.handleWeightsPreview))
	mux.HandleFunc("GET /candidates/search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe runs the server until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// limited rejects requests once the chat bucket is exhausted for the
// current window.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.TryAcquire(chatResource) {
			s.logger.Warn("chat rate limit exceeded",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path))
			s.writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error": map[string]string{
					"code":    "RATE_LIMITED",
					"message": "too many generation requests, retry later",
				},
			})
			return
		}
		next(w, r)
	}
}

// writeJSON encodes v with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", zap.Error(err))
	}
}

// writeError maps a service error onto a status code and JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	var structured *errors.Error
	if !stderrors.As(err, &structured) {
		structured = errors.Internal(err.Error())
	}
	s.writeJSON(w, status, map[string]any{"error": structured})
}
