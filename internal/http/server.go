// Package http provides the HTTP API server and its middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	vaultHTTP "github.com/allisson/keyvault/internal/vault/http"
)

// RouterConfig carries the middleware configuration for the API router.
type RouterConfig struct {
	RateLimitEnabled  bool
	RateLimitRPS      float64
	RateLimitBurst    int
	CORSEnabled       bool
	CORSAllowOrigins  string
	MetricsMiddleware gin.HandlerFunc
}

// Server represents the HTTP API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Routes are registered separately via
// SetupRouter.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the Gin router and registers all API routes.
func (s *Server) SetupRouter(vaultHandler *vaultHTTP.VaultHandler, cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsMiddleware != nil {
		router.Use(cfg.MetricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}

	// Service accounts authenticate with the key carried in the payload, so
	// this route stays outside the user identity middleware.
	v1.POST("/service-accounts/secrets", vaultHandler.FetchServiceAccountSecretsHandler)

	user := v1.Group("")
	user.Use(vaultHTTP.RequireUserIdentity(s.logger))
	user.GET("/vaults/:id", vaultHandler.FetchVaultContentsHandler)
	user.POST("/secrets", vaultHandler.CreateSecretsHandler)
	user.GET("/service-accounts", vaultHandler.ListServiceAccountsHandler)
	user.POST("/service-accounts/:id/connect", vaultHandler.ConnectServiceAccountHandler)

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured, call SetupRouter first")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its dependencies.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}
