// Package http provides the HTTP API of the logbook service.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/pt-logbook/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	SessionCookie  string
	SecureCookies  bool
	MaxUploadBytes int64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:           "0.0.0.0",
		Port:           8080,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		SessionCookie:  "logbook_session",
		MaxUploadBytes: 10 << 20,
	}
}

// Services bundles the application services behind the API
type Services struct {
	Auth      service.AuthService
	Profile   service.ProfileService
	Logbook   service.LogbookService
	Entry     service.EntryService
	Operation service.OperationService
	Document  service.DocumentService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	metrics    http.Handler
	logger     Logger
}

// NewServer creates a new HTTP server with the given services. metrics may
// be nil to leave /metrics unrouted.
func NewServer(config ServerConfig, services Services, metrics http.Handler, logger Logger) *Server {
	defaults := DefaultServerConfig()
	if config.SessionCookie == "" {
		config.SessionCookie = defaults.SessionCookie
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = defaults.MaxUploadBytes
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = config.MaxUploadBytes

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		metrics:  metrics,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.services, s.config, s.logger)

	s.router.GET("/health", h.HealthCheck)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}

	api := s.router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/password-reset", h.ResetPassword)
	}

	authed := api.Group("", s.authMiddleware())
	{
		authed.GET("/profile", h.GetProfile)
		authed.PUT("/profile", h.UpdateProfile)

		authed.GET("/logbooks", h.ListLogbooks)
		authed.POST("/logbooks", h.CreateLogbook)
		authed.GET("/logbooks/:id", h.GetLogbook)
		authed.DELETE("/logbooks/:id", h.DeleteLogbook)

		authed.POST("/logbooks/:id/entries", h.CreateEntry)
		authed.POST("/logbooks/:id/entries/batch", h.CreateBatchEntries)
		authed.PUT("/logbooks/:id/entries/:entryId", h.UpdateEntry)

		authed.GET("/logbooks/:id/operations", h.ListOperations)
		authed.POST("/logbooks/:id/operations", h.CreateOperation)
		authed.PUT("/logbooks/:id/operations/:operationId", h.UpdateOperation)
		authed.DELETE("/logbooks/:id/operations/:operationId", h.DeleteOperation)

		authed.PUT("/logbooks/:id/diagram", h.UpdateDiagram)
		authed.POST("/logbooks/:id/summary", h.SummarizeWeek)
		authed.GET("/logbooks/:id/document", h.DownloadDocument)

		authed.GET("/weeks/:week/entries", h.WeekEntries)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
