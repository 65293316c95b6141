// Package apperr is the gateway's failure taxonomy. Every component reports
// failures as an *Error carrying exactly one Kind; callers above it pass the
// error through without reinterpreting the kind.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	Unauthenticated     Kind = "Unauthenticated"
	QuotaExceeded       Kind = "QuotaExceeded"
	InvalidInput        Kind = "InvalidInput"
	IdentityNotFound    Kind = "IdentityNotFound"
	MissingCredentials  Kind = "MissingCredentials"
	Timeout             Kind = "Timeout"
	RateLimited         Kind = "RateLimited"
	Unauthorized        Kind = "Unauthorized"
	ProviderUnavailable Kind = "ProviderUnavailable"
	NetworkUnreachable  Kind = "NetworkUnreachable"
	PersistenceFailure  Kind = "PersistenceFailure"
	Canceled            Kind = "Canceled"
	DuplicateRequest    Kind = "DuplicateRequest"
	Unknown             Kind = "Unknown"
)

// StatusClientClosedRequest is the non-standard status used when the caller
// disconnected before an answer was produced.
const StatusClientClosedRequest = 499

var statusHints = map[Kind]int{
	Unauthenticated:     http.StatusUnauthorized,
	QuotaExceeded:       http.StatusForbidden,
	InvalidInput:        http.StatusBadRequest,
	IdentityNotFound:    http.StatusNotFound,
	MissingCredentials:  http.StatusInternalServerError,
	Timeout:             http.StatusRequestTimeout,
	RateLimited:         http.StatusTooManyRequests,
	Unauthorized:        http.StatusBadGateway,
	ProviderUnavailable: http.StatusServiceUnavailable,
	NetworkUnreachable:  http.StatusServiceUnavailable,
	PersistenceFailure:  http.StatusInternalServerError,
	Canceled:            StatusClientClosedRequest,
	DuplicateRequest:    http.StatusConflict,
	Unknown:             http.StatusInternalServerError,
}

var userMessages = map[Kind]string{
	Unauthenticated:     "Unauthorized.",
	QuotaExceeded:       "You've reached your free tier limit. Please upgrade your account to continue.",
	InvalidInput:        "The request is invalid.",
	IdentityNotFound:    "User not found.",
	MissingCredentials:  "Server configuration error. Please contact support.",
	Timeout:             "The request took too long to process. Please try with a shorter or simpler query.",
	RateLimited:         "AI rate limit exceeded. Please try again in a few moments.",
	Unauthorized:        "AI service authentication failed. Please contact support.",
	ProviderUnavailable: "AI service temporarily unavailable. Please try again later.",
	NetworkUnreachable:  "Network error while reaching the AI service. Please try again.",
	PersistenceFailure:  "Failed to save your request. Please try again.",
	Canceled:            "The request was cancelled.",
	DuplicateRequest:    "A request with this idempotency key is already being processed.",
	Unknown:             "Something went wrong. Please try again later.",
}

// HTTPStatus is the suggested boundary status for the kind.
func (k Kind) HTTPStatus() int {
	if s, ok := statusHints[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// UserMessage is a short, non-sensitive message safe to show to end users.
func (k Kind) UserMessage() string {
	if m, ok := userMessages[k]; ok {
		return m
	}
	return userMessages[Unknown]
}

type Error struct {
	Kind Kind
	Err  error
}

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Msg builds an Error for failures that have no underlying cause.
func Msg(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the taxonomy member from err. Errors that never passed
// through this package are Unknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
