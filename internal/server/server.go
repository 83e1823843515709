// Package server exposes class generation over HTTP.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/mcncl/jsontocs/internal/analyzer"
	"github.com/mcncl/jsontocs/internal/errors"
	"github.com/mcncl/jsontocs/internal/generator"
	"github.com/mcncl/jsontocs/internal/source"
)

const (
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 5 * time.Second
)

// Request is the body of POST /api/generate.
type Request struct {
	JSONText          string `json:"json_text"`
	BaseClassName     string `json:"base_class_name"`
	ListType          string `json:"list_type"`
	Namespace         string `json:"namespace"`
	DeclareDataMember bool   `json:"declare_data_member"`
}

// Response carries either the generated classes or the failure.
type Response struct {
	Success    bool               `json:"success"`
	Value      map[string]string  `json:"value,omitempty"`
	Order      []string           `json:"order,omitempty"`
	Error      string             `json:"error,omitempty"`
	Diagnostic *errors.Diagnostic `json:"diagnostic,omitempty"`
}

// Server serves the generation API.
type Server struct {
	httpServer *http.Server
	cache      *lru.Cache[string, Response]
	logger     zerolog.Logger
}

// New creates a Server listening on addr. A cacheSize of zero disables caching.
func New(addr string, cacheSize int, logger zerolog.Logger) (*Server, error) {
	s := &Server{logger: logger.With().Str("component", "server").Logger()}

	if cacheSize > 0 {
		cache, err := lru.New[string, Response](cacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

// Start serves until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Starting API server")
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve serves on l until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", l.Addr().String()).Msg("Starting API server")
		if err := s.httpServer.Serve(l); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Generate runs the analyzer for req, consulting the cache first.
func (s *Server) Generate(req Request) Response {
	key := cacheKey(req)
	if s.cache != nil {
		if resp, ok := s.cache.Get(key); ok {
			return resp
		}
	}

	resp := generate(req)
	if s.cache != nil {
		s.cache.Add(key, resp)
	}
	return resp
}

func generate(req Request) Response {
	kind, err := generator.ParseListKind(req.ListType)
	if err != nil {
		return failure(err)
	}
	opts := generator.Options{
		Namespace:         req.Namespace,
		DeclareDataMember: req.DeclareDataMember,
		ListKind:          kind,
	}

	reg, err := analyzer.Create(req.BaseClassName, source.NewString(req.JSONText), opts)
	if err != nil {
		return failure(err)
	}
	return Response{Success: true, Value: reg.Map(), Order: reg.Names()}
}

func failure(err error) Response {
	resp := Response{Error: errors.UserFriendlyError(err)}
	if d, ok := errors.AsDiagnostic(err); ok {
		resp.Diagnostic = &d
	}
	return resp
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Rejected malformed request")
		writeJSON(w, http.StatusBadRequest, Response{Error: "invalid request body: " + err.Error()})
		return
	}

	resp := s.Generate(req)
	event := s.logger.Info()
	if !resp.Success {
		event = s.logger.Debug().Str("error", resp.Error)
	}
	event.
		Bool("success", resp.Success).
		Int("types", len(resp.Order)).
		Dur("elapsed", time.Since(start)).
		Msg("Generated classes")

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cacheKey(req Request) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
