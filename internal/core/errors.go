package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// ValidationError reports missing or malformed input. It is always returned
// before any database work starts.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientStockError reports a stock movement that would take an item
// below zero.
type InsufficientStockError struct {
	ItemID    int
	ItemName  string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d (%s): available %s, required %s",
		e.ItemID, e.ItemName, e.Available.String(), e.Requested.String())
}

// DatabaseError wraps a driver failure during an atomic operation. The
// whole transaction has been rolled back when it is returned.
type DatabaseError struct {
	Op        string
	Retryable bool
	Err       error
}

func (e *DatabaseError) Error() string {
	if e.Retryable {
		return fmt.Sprintf("%s: transient database failure (retryable): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a DatabaseError the caller may retry.
func IsRetryable(err error) bool {
	var dbErr *DatabaseError
	return errors.As(err, &dbErr) && dbErr.Retryable
}

// isDomainError reports whether err already belongs to the error taxonomy.
func isDomainError(err error) bool {
	var (
		vErr  *ValidationError
		nfErr *NotFoundError
		isErr *InsufficientStockError
		dbErr *DatabaseError
	)
	return errors.As(err, &vErr) || errors.As(err, &nfErr) || errors.As(err, &isErr) || errors.As(err, &dbErr)
}

// classifyDBError converts a driver error into a DatabaseError. Serialization
// failures and deadlocks are retryable.
func classifyDBError(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	retryable := false
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			retryable = true
		}
	}
	return &DatabaseError{Op: op, Retryable: retryable, Err: err}
}
