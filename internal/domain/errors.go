package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, status change logged before
// the open interval began).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidInput is returned when a request parameter cannot be parsed at all:
// an unknown duty status code, a malformed date, a negative day count.
// Handlers should map this to HTTP 400 Bad Request.
var ErrInvalidInput = errors.New("invalid input")

// ErrConflict is returned when a write would break a uniqueness rule,
// such as registering a second driver with the same license number.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")
