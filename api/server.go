// Package api - Thin HTTP layer over the quoting engine.
// The API only decodes requests, calls the engine and ledger, and encodes
// responses. It never prices anything itself.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"printquote/core/catalog"
	"printquote/core/types"
	"printquote/db"
	perrors "printquote/internal/errors"
)

// Quoter prices specifications against a catalog
type Quoter interface {
	Calculate(spec types.Specification) (*types.QuoteResult, error)
	Catalog() *catalog.Catalog
}

// Ledger stores issued quotes
type Ledger interface {
	Record(ctx context.Context, result *types.QuoteResult, reference string) (*db.Entry, error)
	Get(ctx context.Context, id string) (*db.Entry, error)
	List(ctx context.Context, limit int) ([]*db.Entry, error)
	FindByInputHash(ctx context.Context, hash string) ([]*db.Entry, error)
}

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Server is the API server
type Server struct {
	quoter  Quoter
	ledger  Ledger
	logger  *zap.Logger
	version string
	router  chi.Router
}

// Option configures a Server
type Option func(*Server)

// WithLedger enables issuing and history endpoints
func WithLedger(l Ledger) Option {
	return func(s *Server) {
		s.ledger = l
	}
}

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a server for the given engine
func NewServer(version string, quoter Quoter, opts ...Option) *Server {
	s := &Server{
		quoter:  quoter,
		logger:  zap.NewNop(),
		version: version,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/catalog", s.handleCatalog)

	r.Route("/quotes", func(r chi.Router) {
		r.Post("/", s.handleQuote)
		r.Get("/", s.handleListQuotes)
		r.Get("/{id}", s.handleGetQuote)
	})
	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr), zap.String("version", s.version))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, code, message string, status int) {
	writeJSON(w, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	}}, status)
}

// writeEngineError maps a typed error onto an HTTP status
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	t := perrors.TypeOf(err)
	status := http.StatusInternalServerError
	switch t {
	case perrors.TypeInput, perrors.TypePricing:
		status = http.StatusUnprocessableEntity
	case perrors.TypeParsing:
		status = http.StatusBadRequest
	case perrors.TypeNotFound:
		status = http.StatusNotFound
	case perrors.TypeStorage:
		status = http.StatusServiceUnavailable
	case "":
		t = perrors.TypeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", zap.Error(err), zap.String("request_id", middleware.GetReqID(r.Context())))
	}
	writeError(w, r, string(t), err.Error(), status)
}
