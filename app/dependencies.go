package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/coffee-shop/auth0"
	"github.com/upb/coffee-shop/config"
	"github.com/upb/coffee-shop/handlers"
	"github.com/upb/coffee-shop/internal/observability"
	"github.com/upb/coffee-shop/middleware"
	"github.com/upb/coffee-shop/repositories"
	"github.com/upb/coffee-shop/repositories/postgres"
	"github.com/upb/coffee-shop/services"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Drinks    repositories.DrinkRepository
	TxManager repositories.TransactionManager

	// Services
	DrinkService handlers.DrinkService

	// Auth
	TokenValidator middleware.TokenValidator
	AuthMiddleware *middleware.AuthMiddleware

	shutdownTracing observability.ShutdownFunc
}

// NewDependencies creates and wires up all application dependencies:
// tracing, the database pool and its migrations, repositories, services and auth.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	factory, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps := NewDependenciesWithFactory(cfg, factory, logger)
	deps.shutdownTracing = shutdownTracing

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesWithFactory wires repositories, services and auth over a
// factory whose schema is already in place.
func NewDependenciesWithFactory(cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) *Dependencies {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	deps.initRepositories()
	deps.initServices()
	deps.initAuth(cfg)

	return deps
}

// initDatabase opens the pool and applies migrations
func initDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*postgres.RepositoryFactory, error) {
	factory, err := postgres.NewRepositoryFactory(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository factory: %w", err)
	}

	if cfg.Database.ResetOnStart {
		logger.Warn("DB_RESET_ON_START is set, dropping and re-seeding the schema")
	}

	if err := factory.Migrate(ctx); err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return factory, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Drinks = repos.Drinks
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() {
	d.DrinkService = services.NewDrinkService(d.Drinks, d.TxManager, d.Logger)
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	if !cfg.Auth0.AuthEnabled() {
		d.Logger.Warn("auth0 not configured, gated endpoints will reject every request")
		d.TokenValidator = &rejectAllValidator{}
		d.AuthMiddleware = middleware.NewAuthMiddleware(d.TokenValidator, d.Logger)
		return
	}

	d.TokenValidator = auth0.NewValidator(auth0.Config{
		Issuer:      cfg.Auth0.Issuer(),
		JWKSURL:     cfg.Auth0.JWKSURL(),
		Audience:    cfg.Auth0.Audience,
		CacheTTL:    cfg.Auth0.JWKSCacheTTL,
		MinRefresh:  cfg.Auth0.JWKSMinRefresh,
		HTTPTimeout: cfg.Auth0.HTTPTimeout,
	})
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.TokenValidator, d.Logger)
	d.Logger.Info("auth0 validator initialized",
		zap.String("issuer", cfg.Auth0.Issuer()),
		zap.String("audience", cfg.Auth0.Audience))
}

// rejectAllValidator rejects all tokens (used when Auth0 is not configured)
type rejectAllValidator struct{}

func (*rejectAllValidator) ValidateToken(context.Context, string) (auth0.ClaimSet, error) {
	return nil, auth0.NewAuthError(auth0.KindInvalidHeader, "authentication not configured", nil)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	if d.shutdownTracing != nil {
		if err := d.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush traces: %w", err))
		}
		d.shutdownTracing = nil
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
