package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/marmitas/internal/logging"
	"github.com/vbonduro/marmitas/internal/service"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	uc     *service.UseCases
	mux    *http.ServeMux
	logger *slog.Logger
}

func NewServer(uc *service.UseCases, logger *slog.Logger) *Server {
	s := &Server{
		uc:     uc,
		mux:    http.NewServeMux(),
		logger: logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /items", s.handleAddItem)
	s.mux.HandleFunc("GET /items", s.handleListItems)
	s.mux.HandleFunc("PATCH /items", s.handleSetInventoryQuantities)
	s.mux.HandleFunc("DELETE /items", s.handleRemoveItem)

	s.mux.HandleFunc("POST /orders/goomer", s.handleCreateGoomerOrder)
	s.mux.HandleFunc("POST /orders/manual", s.handleCreateManualOrder)
	s.mux.HandleFunc("POST /orders/{id}/cancel", s.handleCancelOrder)
}

// requestID tags each request with an ID, taken from the X-Request-ID header
// when the caller sent one, and echoes it back on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID(requestLogger(s.logger, s.mux)).ServeHTTP(w, r)
}

const shutdownTimeout = 10 * time.Second

// ListenAndServe serves until ctx is done, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
