package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TransactionFunc represents a function that operates within a database transaction
type TransactionFunc func(*sql.Tx) error

// WithTransaction executes fn within a database transaction, committing
// when it returns nil and rolling back otherwise.
func (app *App) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := app.DB.BeginTx(ctx, nil)
	if err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rollbackErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return WrapDatabaseError(ErrTypeConnection, "failed to commit transaction", err)
	}

	return nil
}

// DatabaseError represents different types of database errors
type DatabaseError struct {
	Type    string
	Message string
	Err     error
}

func (e *DatabaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Common database error types
const (
	ErrTypeConnection = "CONNECTION_ERROR"
	ErrTypeNotFound   = "NOT_FOUND"
	ErrTypeConstraint = "CONSTRAINT_VIOLATION"
	ErrTypeValidation = "VALIDATION_ERROR"
)

// WrapDatabaseError wraps a database error with additional context
func WrapDatabaseError(errType, message string, err error) *DatabaseError {
	return &DatabaseError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// notFound builds the error managers return for missing rows.
func notFound(resource string) *DatabaseError {
	return WrapDatabaseError(ErrTypeNotFound, resource+" not found", sql.ErrNoRows)
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr.Type == ErrTypeNotFound
	}
	return errors.Is(err, sql.ErrNoRows)
}

// errorType returns the DatabaseError type of err, or "".
func errorType(err error) string {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr.Type
	}
	return ""
}
