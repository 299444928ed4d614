package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("resource conflict") // e.g. duplicate username/email, duplicate favorite
	ErrInternalServer = errors.New("internal server error")

	// ErrInvalidCredentials is shared by every login failure path so unknown
	// email and wrong password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrInvalidResetToken = errors.New("invalid or expired token")
	ErrWrongPassword     = errors.New("current password is incorrect")
)

// HTTPStatusFromError maps domain errors to HTTP status codes. Duplicates map
// to 400 here, not 409: the API contract treats a unique-constraint violation
// as a plain client error.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrTokenExpired) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrTokenInvalid) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidResetToken) ||
		errors.Is(err, ErrWrongPassword) {
		return http.StatusBadRequest
	}

	// Unique violations that escaped the repository layer untranslated.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
