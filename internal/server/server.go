// Package server provides the embedded HTTP listener and the read-only
// status endpoints.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"steward/internal/cache"
	"steward/internal/constants"
	"steward/internal/db"
	"steward/internal/errors"
	"steward/internal/lifecycle"
	"steward/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// StatusSource provides the current status snapshot. The lifecycle
// satisfies this; the server never drives transitions itself.
type StatusSource interface {
	StatusReport() lifecycle.Report
}

// Config holds the server configuration
type Config struct {
	Host            string        `toml:"host"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`

	AllowOrigins []string `toml:"allow_origins"`
	AllowHeaders []string `toml:"allow_headers"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		ReadTimeout:     constants.DefaultServerReadTimeout,
		WriteTimeout:    constants.DefaultServerWriteTimeout,
		ShutdownTimeout: constants.DefaultServerShutdownTimeout,
		AllowOrigins:    []string{"*"},
		AllowHeaders:    []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}
}

// Server is the embedded HTTP listener. It implements the lifecycle
// Listener contract: Bind starts serving, Close shuts down gracefully.
type Server struct {
	config      *Config
	echo        *echo.Echo
	status      StatusSource
	transitions db.TransitionLister
	cache       *cache.Cache[string, []*db.Transition]
	srv         *http.Server
	addr        string
}

// New creates a new server instance
func New(cfg *Config, status StatusSource, transitions db.TransitionLister) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	s := &Server{
		config:      cfg,
		echo:        e,
		status:      status,
		transitions: transitions,
		cache:       cache.NewCache[string, []*db.Transition](constants.DefaultCacheTTL, constants.DefaultCacheMaxSize),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// SetStatusSource wires the status provider after construction. The
// lifecycle and the server reference each other, so one side is set late.
func (s *Server) SetStatusSource(status StatusSource) {
	s.status = status
}

// ResponseCache exposes the response cache so the app can hand it to the
// lifecycle as its pass-through cache collaborator.
func (s *Server) ResponseCache() *cache.Cache[string, []*db.Transition] {
	return s.cache
}

// Bind starts listening on the given port. It fails fast when the address
// cannot be bound and serves in the background otherwise.
func (s *Server) Bind(ctx context.Context, port int) error {
	if s.srv != nil {
		return fmt.Errorf("listener is already bound")
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	s.addr = ln.Addr().String()

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.echo,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.srv = srv

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP listener terminated unexpectedly")
		}
	}()

	logger.WithField("addr", s.addr).Info("HTTP listener bound")
	return nil
}

// Addr returns the bound address, empty until Bind succeeds
func (s *Server) Addr() string {
	return s.addr
}

// Close shuts the listener down gracefully
func (s *Server) Close(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(shutdownCtx)
	s.srv = nil
	if err != nil {
		return fmt.Errorf("listener shutdown failed: %w", err)
	}

	logger.Info("HTTP listener closed")
	return nil
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(logger.RequestLogger())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.config.AllowOrigins,
		AllowHeaders: s.config.AllowHeaders,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
	}))
}

// errorHandler maps structured errors onto HTTP responses
func errorHandler(err error, c echo.Context) {
	if se, ok := err.(*errors.StewardError); ok {
		err = errors.ToHTTPError(se)
	}
	c.Echo().DefaultHTTPErrorHandler(err, c)
}
