package repositories

import (
	"errors"

	"github.com/upb/coffee-shop/models"
)

// Persistence error kinds. Implementations wrap driver errors with one of
// these so callers can tell failures apart with errors.Is.
var (
	// ErrNotFound is returned when no row matches the requested id
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateTitle is returned when a drink title is already taken
	ErrDuplicateTitle = errors.New("drink title already exists")

	// ErrInvalidRecipe is returned when a recipe cannot be stored or read back
	ErrInvalidRecipe = models.ErrInvalidRecipe

	// ErrInvalidInput is returned when a value is rejected by the column type
	ErrInvalidInput = errors.New("value rejected by database")

	// ErrUnavailable is returned when the database cannot be reached
	ErrUnavailable = errors.New("database unavailable")
)
