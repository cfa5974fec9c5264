package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/logging"
	"storefront/internal/service/checkout"
	"storefront/internal/store"
)

// Sessions leases out the state container of a session scope. Every
// Acquire is paired with a Release once the request is done.
type Sessions interface {
	Acquire(ctx context.Context, scope string) *store.Store
	Release(scope string)
}

// Catalog serves the current catalog snapshot.
type Catalog interface {
	Current(ctx context.Context) catalog.Snapshot
}

// Pinger reports whether the state backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the routes are built on.
type Deps struct {
	Sessions Sessions
	Catalog  Catalog
	Checkout *checkout.Service
	Backend  Pinger
}

// Options tune the router.
type Options struct {
	AllowedOrigins []string
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds a Server with all routes.
func New(addr string, logger *zap.Logger, deps Deps, opts Options) *Server {
	logger = logging.OrNop(logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           buildRouter(logger, deps, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(backend Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if backend == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "state backend not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := backend.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "state backend not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
