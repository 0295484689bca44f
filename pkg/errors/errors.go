// ================== pkg/errors/errors.go =================
package errors

import "errors"

// Error kinds shared by every feature. Feature errors wrap one of these so
// handlers can map them to a status with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
	ErrConflict     = errors.New("state conflict")
	ErrValidation   = errors.New("validation failed")
	ErrExternal     = errors.New("external service failure")
)
