package web

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/spirefy/go-hcv/template"
	"github.com/spirefy/go-hcv/types"
)

// Server serves the views and whatever routes plugins add through Handle.
type Server struct {
	router    *mux.Router
	expanders *template.Registry
	webRoot   string
	addr      string
	requests  atomic.Int64
	logger    *zap.Logger
}

var _ types.Endpoint = (*Server)(nil)

// NewServer creates a server rendering the templates under webRoot/html with expanders.
func NewServer(addr, webRoot string, expanders *template.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		router:    mux.NewRouter(),
		expanders: expanders,
		webRoot:   webRoot,
		addr:      addr,
		logger:    logger.Named("web"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/", s.HomeGet).Methods(http.MethodGet)
	s.router.HandleFunc("/login", s.LoginGet).Methods(http.MethodGet)
	s.router.HandleFunc("/login", s.LoginPost).Methods(http.MethodPost)
}

// Handle adds a route, typically for a plugin.
func (s *Server) Handle(path string, h http.Handler) {
	s.logger.Debug("adding route", zap.String("path", path))
	s.router.Handle(path, h)
}

func (s *Server) Expanders() types.Expanders {
	return s.expanders
}

func (s *Server) Addr() string {
	return s.addr
}

// NextSerial returns the number of the next request; the first is 1.
func (s *Server) NextSerial() int64 {
	return s.requests.Add(1)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
