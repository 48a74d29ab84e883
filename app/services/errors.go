// Package services holds the business rules between the HTTP controllers
// and the repositories. Services return *Error values for every expected
// failure; controllers translate them to HTTP responses and treat any
// other error as a 500.
package services

import "net/http"

// Error is a business-rule failure with an HTTP status and a user-facing
// message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func badRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

func forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}
