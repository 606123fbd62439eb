package apiclient

import (
	"errors"
	"net/http"
)

// ErrorCode is the code every normalized failure carries.
const ErrorCode = "error"

type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindNetwork      Kind = "network"
	KindServer       Kind = "server"
)

// Error is the single failure shape callers branch on, whatever went wrong underneath.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    Kind   `json:"-"`
	Status  int    `json:"-"` // 0 when no response was received
}

func (e *Error) Error() string { return e.Message }

func NewError(kind Kind, status int, msg string) *Error {
	return &Error{Code: ErrorCode, Message: msg, Kind: kind, Status: status}
}

// Validation builds a client-side validation failure.
func Validation(msg string) *Error { return NewError(KindValidation, 0, msg) }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindServer
	}
}
