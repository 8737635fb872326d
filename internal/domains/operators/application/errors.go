package application

import "errors"

// ErrInvalidInput signals the request could not be handed to the repository.
var ErrInvalidInput = errors.New("invalid operator input")
