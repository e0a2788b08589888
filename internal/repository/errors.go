package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = errors.New("record not found")

// pgUniqueViolation is SQLSTATE 23505.
const pgUniqueViolation = pq.ErrorCode("23505")

// UniqueViolationError reports a write rejected by a UNIQUE constraint.
type UniqueViolationError struct {
	Field      string
	Constraint string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on %s", e.Field)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// constraintFields maps the constraint names declared in migrations/ to the
// column they guard.
var constraintFields = map[string]string{
	"users_email_key":     "email",
	"suppliers_email_key": "email",
	"suppliers_phone_key": "phone",
}

// translateError converts a unique-constraint failure from lib/pq into a
// *UniqueViolationError. Any other error is returned unchanged.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		field, ok := constraintFields[pqErr.Constraint]
		if !ok {
			field = pqErr.Column
		}
		return &UniqueViolationError{Field: field, Constraint: pqErr.Constraint, Err: err}
	}
	return err
}
