package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/benaskins/greeter/internal/config"
)

// Greeting is the body served on both routes.
const Greeting = "<html><h1>Go sample app is running</h1></html>"

// Server serves the greeting on "/" and on the application's root alias.
type Server struct {
	cfg    config.Config
	server *http.Server
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a server for the given configuration. A nil logger
// falls back to slog.Default.
func NewServer(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger.With("component", "server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /{app}/{$}", s.alias)

	s.server = &http.Server{Handler: NormalizePath(mux)}
	return s
}

// Banner is the startup line reporting the resolved configuration.
func Banner(cfg config.Config) string {
	return fmt.Sprintf("Started go app '%s' on port '%s' with data dir of '%s'", cfg.Name, cfg.Port, cfg.DataDir)
}

// Handler returns the root handler, normalization included.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Listen binds the loopback address from the config and serves until
// Shutdown is called.
func (s *Server) Listen() error {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("binding %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It returns nil after a clean Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("listening",
		"addr", ln.Addr().String(),
		"app_name", s.cfg.Name,
		"root", s.cfg.RootPath(),
		"data_dir", s.cfg.DataDir,
	)

	err := s.server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the bound address, or nil before the server is listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, Greeting)
}

func (s *Server) alias(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("app") != s.cfg.Name {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusOK, Greeting)
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
