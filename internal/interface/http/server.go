// Package http exposes the REST API of the learning hub: auth, content
// generation, the progress ledger, and the social feed.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/internal/application/command"
	"github.com/learnloop/learnloop-hub/internal/application/query"
	"github.com/learnloop/learnloop-hub/internal/interface/http/handlers"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// Config contains HTTP server settings.
type Config struct {
	Host string
	Port int

	// Mode selects the gin mode: "release" in production, "debug" otherwise.
	Mode string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8080,
		Mode:         gin.ReleaseMode,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Address returns the listen address.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Dependencies carries everything the route handlers need.
type Dependencies struct {
	Auth            *command.AuthHandler
	Ledger          *command.ProgressLedger
	GenerateContent *command.GenerateContentHandler
	CreateTopic     *command.CreateTopicHandler
	CreatePost      *command.CreatePostHandler
	ToggleLike      *command.ToggleLikeHandler
	GetProgress     *query.GetProgressHandler
	GetFeed         *query.GetFeedHandler

	// Tokens verifies bearer tokens on the authenticated route group.
	Tokens TokenVerifier

	// Health reports readiness of the backing stores.
	Health handlers.HealthChecker

	Logger *logger.Logger
}

// Server wraps the gin engine in an http.Server with sane timeouts.
type Server struct {
	cfg Config
	srv *http.Server
	log *logger.Logger
}

// NewServer builds the router and the server around it.
func NewServer(cfg Config, deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	engine := newRouter(cfg, deps)
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:         cfg.Address(),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: deps.Logger.With("component", "http_server"),
	}
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.log.Info("http server listening", "addr", s.cfg.Address())
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
