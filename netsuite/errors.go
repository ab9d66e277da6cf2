package netsuite

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation         ErrorKind = "validation_error"
	KindUpstreamServer     ErrorKind = "upstream_server_error"
	KindUpstreamClient     ErrorKind = "upstream_client_error"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindStoreWrite         ErrorKind = "store_write_error"
	KindConfig             ErrorKind = "config_error"
	KindNotFound           ErrorKind = "not_found"
)

// Error is the structured failure handed to the route layer. Status carries
// the upstream HTTP status for upstream kinds and is zero otherwise.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewUpstreamError(status int, message string) *Error {
	kind := KindUpstreamClient
	if status >= 500 {
		kind = KindUpstreamServer
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

func NewServiceUnavailable(err error) *Error {
	return &Error{Kind: KindServiceUnavailable, Message: "upstream temporarily unavailable", Err: err}
}

func NewStoreWriteError(table string, chunk int, err error) *Error {
	return &Error{
		Kind:    KindStoreWrite,
		Message: fmt.Sprintf("failed writing chunk %d of table %s", chunk, table),
		Err:     err,
	}
}

func NewConfigError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// AsError unwraps err into a *Error if one is in the chain.
func AsError(err error) (*Error, bool) {
	var typed *Error
	if errors.As(err, &typed) {
		return typed, true
	}
	return nil, false
}

// retryable reports whether the retry policy may re-attempt after err.
// Upstream errors carrying a status below 500 are final; untyped errors
// always retry.
func retryable(err error) bool {
	typed, ok := AsError(err)
	if !ok {
		return true
	}
	switch typed.Kind {
	case KindUpstreamServer:
		return true
	case KindValidation, KindUpstreamClient, KindServiceUnavailable, KindConfig, KindNotFound:
		return false
	default:
		return typed.Status == 0 || typed.Status >= 500
	}
}

// HTTPStatus maps an error to the status the route layer responds with.
func HTTPStatus(err error) int {
	typed, ok := AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch typed.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindConfig:
		return http.StatusInternalServerError
	case KindUpstreamServer, KindUpstreamClient:
		if typed.Status >= 400 {
			return typed.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
