package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/resume"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrForbidden indicates the caller lacks the required role.
type ErrForbidden struct{}

func (e *ErrForbidden) Error() string {
	return "access denied"
}

// ErrGoogleAuth indicates a Google credential could not be verified.
type ErrGoogleAuth struct {
	Cause error
}

func (e *ErrGoogleAuth) Error() string {
	return "google authentication failed"
}

func (e *ErrGoogleAuth) Unwrap() error {
	return e.Cause
}

// ErrGoogleDisabled indicates Google sign-in is not configured.
type ErrGoogleDisabled struct{}

func (e *ErrGoogleDisabled) Error() string {
	return "google login is not configured"
}

const internalErrorMessage = "internal server error"

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists    *ErrEmailAlreadyExists
		invalidCreds   *ErrInvalidCredentials
		googleAuth     *ErrGoogleAuth
		userNotFound   *ErrUserNotFound
		validation     *ErrValidation
		forbidden      *ErrForbidden
		googleDisabled *ErrGoogleDisabled
		resumeInvalid  *resume.ValidationError
		resumeNotFound *resume.NotFoundError
	)
	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &invalidCreds), errors.As(err, &googleAuth):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &userNotFound), errors.As(err, &resumeNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &resumeInvalid):
		return http.StatusBadRequest
	case errors.As(err, &googleDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text safe to return to clients. Unexpected
// failures never leak their cause.
func publicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return internalErrorMessage
	}
	return err.Error()
}
