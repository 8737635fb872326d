package errors

import "errors"

// NotFound is the kind shared by every "no record for this identifier" failure.
// Domain sentinels wrap it so callers can test for the kind without knowing the entity.
var NotFound = errors.New("not found")

// IsNotFound reports whether err is, or wraps, a not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, NotFound)
}

// NewNotFound builds an entity specific sentinel such as "operator not found".
func NewNotFound(entity string) error {
	return &notFoundError{entity: entity}
}

type notFoundError struct {
	entity string
}

func (e *notFoundError) Error() string { return e.entity + " " + NotFound.Error() }

func (e *notFoundError) Unwrap() error { return NotFound }
