package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cerrors "github.com/vango-dev/docroutes/internal/errors"
	mw "github.com/vango-dev/docroutes/pkg/middleware"
	"github.com/vango-dev/docroutes/pkg/resolver"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// Server serves route resolution over HTTP.
type Server struct {
	config   *Config
	live     *resolver.Live
	resolve  resolver.Func
	notifier *Notifier
	auth     *AdminAuth
	router   chi.Router
	logger   *slog.Logger

	// reloadMu serializes reloads from the endpoint and the watcher.
	reloadMu sync.Mutex

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// New creates a server for live. mws wrap every resolution, outermost first.
func New(live *resolver.Live, config *Config, mws ...resolver.Middleware) *Server {
	config = config.withDefaults()

	s := &Server{
		config:   config,
		live:     live,
		resolve:  resolver.Chain(live.Func(), mws...),
		notifier: NewNotifier(config.CheckOrigin, config.WriteTimeout),
		logger:   config.Logger.With("component", "server"),
	}
	if config.AdminSecret != "" {
		s.auth = NewAdminAuth(config.AdminSecret)
	}
	s.router = s.routes()

	snap := live.Snapshot()
	mw.SetTableSize(snap.Table().Len(), snap.Generation)
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/_routes", func(r chi.Router) {
		r.Get("/resolve", s.handleResolve)
		r.Get("/table", s.handleTable)
		r.Get("/ws", s.notifier.HandleWebSocket)

		r.Group(func(r chi.Router) {
			if s.auth != nil {
				r.Use(s.auth.Middleware)
			}
			r.Post("/reload", s.handleReload)
		})
	})

	r.Get("/*", s.handlePreview)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Notifier returns the WebSocket notifier.
func (s *Server) Notifier() *Notifier {
	return s.notifier
}

// Live returns the live resolver the server reads.
func (s *Server) Live() *resolver.Live {
	return s.live
}

// Apply installs table and notifies clients. It reports false when the
// table is identical to the one in service.
func (s *Server) Apply(table *routetable.Table) bool {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.apply(table)
}

func (s *Server) apply(table *routetable.Table) bool {
	mw.RecordReload(true)
	if !s.live.Swap(table) {
		s.logger.Debug("route table unchanged", "fingerprint", table.Fingerprint()[:12])
		return false
	}

	// Read the pair together; another Swap may already have followed ours.
	snap := s.live.Snapshot()
	table, generation := snap.Table(), snap.Generation
	mw.SetTableSize(table.Len(), generation)
	s.notifier.NotifyReload(table.Fingerprint(), generation, table.Len())
	s.logger.Info("route table swapped",
		"entries", table.Len(),
		"generation", generation,
		"fingerprint", table.Fingerprint()[:12])
	return true
}

// ReportError records a failed reload. The table in service is unchanged.
func (s *Server) ReportError(err error) {
	mw.RecordReload(false)
	s.notifier.NotifyError(err.Error())
	s.logger.Warn("route table reload failed", "error", err)
}

// Reload loads a table through the configured Loader and applies it.
func (s *Server) Reload(ctx context.Context) (bool, error) {
	if s.config.Loader == nil {
		return false, errNoLoader
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	table, err := s.config.Loader.Load(ctx)
	if err != nil {
		s.ReportError(err)
		return false, err
	}
	return s.apply(table), nil
}

var errNoLoader = errors.New("server: no table source configured")

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return cerrors.New("E120").WithDetail("listen " + s.config.Address).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}
	s.listener = ln
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Addr returns the listening address once Serve has started.
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
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by http.Server.
	s.notifier.Close()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
