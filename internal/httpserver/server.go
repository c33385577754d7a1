package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bookmarks/backend/internal/config"
	"bookmarks/backend/internal/logging"
	authusecase "bookmarks/backend/internal/usecase/auth"
	bookmarkusecase "bookmarks/backend/internal/usecase/bookmark"
	userusecase "bookmarks/backend/internal/usecase/user"
)

// Deps groups the services the HTTP layer dispatches to.
type Deps struct {
	Auth      *authusecase.Service
	Users     *userusecase.Service
	Bookmarks *bookmarkusecase.Service
	// Health reports storage reachability; nil means always healthy.
	Health func(ctx context.Context) error
}

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer      *http.Server
	router          *http.ServeMux
	handler         http.Handler
	logger          logging.Logger
	authService     *authusecase.Service
	userService     *userusecase.Service
	bookmarkService *bookmarkusecase.Service
	health          func(ctx context.Context) error
	addr            string
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(cfg config.Config, logger logging.Logger, deps Deps) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	logger = logger.With("component", "http")
	handler := withTracing(withLogging(logger, withRecover(logger, withCORS(mux, cfg.AllowedOrigins))))

	srv := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		},
		router:          mux,
		handler:         handler,
		logger:          logger,
		authService:     deps.Auth,
		userService:     deps.Users,
		bookmarkService: deps.Bookmarks,
		health:          deps.Health,
		addr:            addr,
	}
	srv.registerRoutes()
	return srv
}

// Start bootstraps the HTTP server on the configured address.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
