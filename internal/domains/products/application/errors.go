package application

import "errors"

// ErrInvalidInput signals a request the service refuses before touching storage.
var ErrInvalidInput = errors.New("invalid product input")
