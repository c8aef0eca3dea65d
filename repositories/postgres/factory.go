package postgres

import (
	"context"

	"github.com/upb/coffee-shop/config"
	"github.com/upb/coffee-shop/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	cfg    config.DatabaseConfig
	logger *zap.Logger
}

// NewRepositoryFactory opens the connection pool described by cfg
func NewRepositoryFactory(cfg config.DatabaseConfig, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewRepositoryFactoryWithDB(db, cfg, logger), nil
}

// NewRepositoryFactoryWithDB builds a factory over an existing pool
func NewRepositoryFactoryWithDB(db *DB, cfg config.DatabaseConfig, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{db: db, cfg: cfg, logger: logger}
}

// Migrate brings the schema up to date, resetting it first when configured to
func (f *RepositoryFactory) Migrate(ctx context.Context) error {
	return Migrate(ctx, f.db, f.cfg.ResetOnStart, f.logger)
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Drinks: NewDrinkRepository(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
