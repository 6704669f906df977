// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/keyvault/internal/config"
	"github.com/allisson/keyvault/internal/database"
	"github.com/allisson/keyvault/internal/http"
	"github.com/allisson/keyvault/internal/metrics"
	vaultHTTP "github.com/allisson/keyvault/internal/vault/http"
	vaultRepository "github.com/allisson/keyvault/internal/vault/repository"
	vaultUsecase "github.com/allisson/keyvault/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	sessionManager database.SessionManager

	// Use Cases
	vaultUseCase vaultUsecase.VaultUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	sessionManagerInit  sync.Once
	vaultUseCaseInit    sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := database.Connect(database.Config{
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			c.initErrors["db"] = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MetricsProvider returns the metrics provider.
// Returns nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Returns a no-op recorder when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// SessionManager returns the database session manager.
func (c *Container) SessionManager() (database.SessionManager, error) {
	c.sessionManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["sessionManager"] = fmt.Errorf("failed to get database for session manager: %w", err)
			return
		}
		c.sessionManager = database.NewSessionManager(db)
	})
	if storedErr, exists := c.initErrors["sessionManager"]; exists {
		return nil, storedErr
	}
	return c.sessionManager, nil
}

// VaultUseCase returns the vault use case instance.
func (c *Container) VaultUseCase() (vaultUsecase.VaultUseCase, error) {
	c.vaultUseCaseInit.Do(func() {
		sessionManager, err := c.SessionManager()
		if err != nil {
			c.initErrors["vaultUseCase"] = fmt.Errorf("failed to get session manager for vault use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["vaultUseCase"] = fmt.Errorf("failed to get business metrics for vault use case: %w", err)
			return
		}

		useCase := vaultUsecase.NewVaultUseCase(
			sessionManager,
			vaultRepository.NewPostgreSQLVaultRepository(),
			vaultRepository.NewPostgreSQLServiceAccountRepository(),
			vaultRepository.NewPostgreSQLSecretRepository(),
		)

		c.vaultUseCase = vaultUsecase.NewVaultUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// HTTPServer returns the HTTP server instance with all routes registered.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		logger := c.Logger()

		db, err := c.DB()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get database for http server: %w", err)
			return
		}

		vaultUseCase, err := c.VaultUseCase()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get vault use case for http server: %w", err)
			return
		}

		routerConfig := http.RouterConfig{
			RateLimitEnabled: c.config.RateLimitEnabled,
			RateLimitRPS:     c.config.RateLimitRequestsPerSec,
			RateLimitBurst:   c.config.RateLimitBurst,
			CORSEnabled:      c.config.CORSEnabled,
			CORSAllowOrigins: c.config.CORSAllowOrigins,
		}

		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get metrics provider for http server: %w", err)
			return
		}
		if provider != nil {
			routerConfig.MetricsMiddleware = metrics.HTTPMetricsMiddleware(
				provider.MeterProvider(),
				c.config.MetricsNamespace,
			)
		}

		server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
		server.SetupRouter(vaultHTTP.NewVaultHandler(vaultUseCase, logger), routerConfig)

		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
