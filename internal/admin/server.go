// Package admin exposes the host's capture command and counters over HTTP.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"simhost/internal/engine"
	"simhost/internal/host"
	"simhost/internal/logging"
	"simhost/internal/record"
)

// Controller is the part of the host the admin server drives.
type Controller interface {
	Capture(ctx context.Context) (record.CaptureRow, error)
	Stats() host.Stats
}

type Server struct {
	Host Controller
	mux  *http.ServeMux
}

func NewServer(h Controller) *Server {
	s := &Server{Host: h, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/generate-images", s.handleGenerate)
	s.mux.HandleFunc("/status", s.handleStatus)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	row, err := s.Host.Capture(r.Context())
	switch {
	case err == nil:
		w.Header().Set("X-Capture-Id", row.ID)
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, engine.ErrNotStarted), errors.Is(err, engine.ErrStopped):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		logging.FromContext(r.Context()).Warn("generate-images failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Host.Stats())
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
