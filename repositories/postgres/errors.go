package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/upb/coffee-shop/repositories"
)

// PostgreSQL error codes and classes used for classification
const (
	uniqueViolation      = pq.ErrorCode("23505")
	dataExceptionClass   = pq.ErrorClass("22")
	connectionErrorClass = pq.ErrorClass("08")
)

// classifyError wraps a driver error with the matching repositories error kind.
// Errors that fit no kind are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == uniqueViolation:
			return fmt.Errorf("%w: %s", repositories.ErrDuplicateTitle, pqErr.Message)
		case pqErr.Code.Class() == dataExceptionClass:
			return fmt.Errorf("%w: %s", repositories.ErrInvalidInput, pqErr.Message)
		case pqErr.Code.Class() == connectionErrorClass:
			return fmt.Errorf("%w: %s", repositories.ErrUnavailable, pqErr.Message)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", repositories.ErrUnavailable, err)
	}

	return err
}
