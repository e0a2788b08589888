package service

import (
	"context"
	"errors"
	"fmt"

	"suppliers-be/internal/logging"
	"suppliers-be/internal/repository"
)

// Sentinels for errors.Is checks. The typed errors below match them.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrOperationFailed = errors.New("operation failed")
	ErrInvalidInput    = errors.New("invalid input")
)

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	Field  string
	Value  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s '%s' not found", e.Entity, e.Field, e.Value)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError reports a uniqueness conflict on Field.
type AlreadyExistsError struct {
	Entity string
	Field  string
	Value  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with %s '%s' already exists", e.Entity, e.Field, e.Value)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// OperationError is a store failure that is not a uniqueness conflict. Its
// message names the operation only; the cause is reachable through Unwrap.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("Database operation failed: %s", e.Op)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (e *OperationError) Is(target error) bool {
	return target == ErrOperationFailed
}

// ValidationError reports client input the service cannot accept.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

const (
	entityUser     = "User"
	entitySupplier = "Supplier"
)

// storeError converts an error from a repository or transaction into the
// service taxonomy. values maps a column name to the value the caller tried
// to write, for conflict messages. Generic failures are logged with their
// cause.
func storeError(ctx context.Context, log logging.Logger, op, entity string, err error, values map[string]string) error {
	var (
		notFound *NotFoundError
		exists   *AlreadyExistsError
		unique   *repository.UniqueViolationError
		invalid  *ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		return invalid
	case errors.As(err, &notFound):
		return notFound
	case errors.As(err, &exists):
		return exists
	case errors.As(err, &unique):
		return &AlreadyExistsError{Entity: entity, Field: unique.Field, Value: values[unique.Field]}
	default:
		log.Error(ctx, "store operation failed", "op", op, "error", err)
		return &OperationError{Op: op, Err: err}
	}
}
