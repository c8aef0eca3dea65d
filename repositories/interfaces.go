package repositories

import (
	"context"

	"github.com/upb/coffee-shop/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// DrinkRepository handles drink data operations
type DrinkRepository interface {
	// List retrieves all drinks ordered by id
	List(ctx context.Context) ([]*models.Drink, error)

	// GetByID retrieves a drink by ID
	GetByID(ctx context.Context, id int64) (*models.Drink, error)

	// Create inserts a new drink and sets its generated ID
	Create(ctx context.Context, drink *models.Drink) error

	// Update persists the title and recipe of an existing drink
	Update(ctx context.Context, drink *models.Drink) error

	// Delete deletes a drink
	Delete(ctx context.Context, id int64) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Drinks DrinkRepository
}
