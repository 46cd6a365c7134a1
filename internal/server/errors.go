// Package server provides the HTTP JSON API for assessments.lol.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/assessmentslol/assessments/internal/validation"
)

// ErrUnauthorized indicates a missing or unusable identity
type ErrUnauthorized struct{}

func (e *ErrUnauthorized) Error() string {
	return "unauthorized"
}

// ErrForbidden indicates the caller may not access the requested resource
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Message)
}

// ErrNotFound indicates a referenced entity does not exist
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrBadRequest indicates a body that could not be read as the expected JSON
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

// ErrUpstream indicates a store or other dependency failed. Op is the
// client-facing description of what failed, such as "Failed to fetch companies".
type ErrUpstream struct {
	Op  string
	Err error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// upstream wraps a store failure with the message shown to clients.
func upstream(op string, err error) error {
	return &ErrUpstream{Op: op, Err: err}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		unauthorized *ErrUnauthorized
		forbidden    *ErrForbidden
		notFound     *ErrNotFound
		badRequest   *ErrBadRequest
		invalid      *validation.InvalidParameterError
		missing      *validation.MissingFieldsError
	)
	switch {
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badRequest), errors.As(err, &invalid), errors.As(err, &missing):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the client-facing message for an error. Internal
// details never leave the server.
func ErrorMessage(err error) string {
	var (
		unauthorized *ErrUnauthorized
		forbidden    *ErrForbidden
		notFound     *ErrNotFound
		badRequest   *ErrBadRequest
		invalid      *validation.InvalidParameterError
		missing      *validation.MissingFieldsError
		up           *ErrUpstream
	)
	switch {
	case errors.As(err, &unauthorized):
		return "Unauthorized"
	case errors.As(err, &forbidden):
		return forbidden.Message
	case errors.As(err, &notFound):
		return notFound.Resource + " not found"
	case errors.As(err, &badRequest):
		return badRequest.Message
	case errors.As(err, &invalid):
		return invalid.Message()
	case errors.As(err, &missing):
		return missing.Message()
	case errors.As(err, &up):
		return up.Op
	default:
		return "Internal server error"
	}
}
