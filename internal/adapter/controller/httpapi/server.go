package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
	"github.com/YoshitsuguKoike/billrecon/internal/application/port/input"
)

// DefaultAddr is the listen address used when none is configured
const DefaultAddr = "127.0.0.1:8787"

// Settings holds the listener configuration
type Settings struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64
}

// DefaultSettings returns settings suitable for a local operator API.
// Generation over a large directory can take a while, hence the long write timeout.
func DefaultSettings() Settings {
	return Settings{
		Addr:         DefaultAddr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
		MaxBodyBytes: 64 << 10,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Addr == "" {
		s.Addr = d.Addr
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = d.ReadTimeout
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = d.WriteTimeout
	}
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = d.IdleTimeout
	}
	if s.MaxBodyBytes <= 0 {
		s.MaxBodyBytes = d.MaxBodyBytes
	}
	return s
}

// UseCases bundles the operations exposed over HTTP.
// Directory may be nil, which disables the rate and ledger endpoints.
type UseCases struct {
	Audit     input.AuditUseCase
	Repair    input.RepairUseCase
	Generate  input.GenerateUseCase
	Directory input.DirectoryUseCase
}

// Server serves the reconcile API
type Server struct {
	settings Settings
	useCases UseCases
	logger   app.Logger
	handler  http.Handler

	mu       sync.RWMutex
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

// NewServer creates a server. Nothing listens until Start.
func NewServer(settings Settings, useCases UseCases, logger app.Logger) *Server {
	if logger == nil {
		logger = app.GetLogger()
	}
	s := &Server{
		settings: settings.withDefaults(),
		useCases: useCases,
		logger:   logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return errors.New("http server already started")
	}

	listener, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.settings.Addr, err)
	}

	server := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}

	s.listener = listener
	s.server = server
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped: %v", err)
		}
	}(s.done)

	s.logger.Info("HTTP API listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	<-s.done

	s.server = nil
	s.listener = nil
	s.logger.Info("HTTP API stopped")
	return nil
}

// Addr returns the bound address, or "" before Start
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the scheme and host of the running server
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		addr = s.settings.Addr
	}
	return "http://" + addr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/reconcile/audit", s.handleAudit)
	mux.HandleFunc("POST /api/reconcile/repair", s.handleRepair)
	mux.HandleFunc("POST /api/reconcile/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/reconcile/generate/preview", s.handlePreview)
	if s.useCases.Directory != nil {
		mux.HandleFunc("GET /api/rates", s.handleListRates)
		mux.HandleFunc("GET /api/ledger", s.handleListLedger)
	}
	return mux
}
