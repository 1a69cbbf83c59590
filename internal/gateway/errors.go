package gateway

import (
	"fmt"
	"net/http"
)

// Kind classifies a request failure into one of the caller-visible
// categories the gateway reports.
type Kind string

const (
	KindAuth              Kind = "auth_error"
	KindMissingRoutingKey Kind = "missing_routing_key"
	KindUnknownProvider   Kind = "unknown_provider"
	KindMalformedRequest  Kind = "malformed_request"
	KindInvalidRole       Kind = "invalid_message_role"
	KindCredentialLoad    Kind = "credential_load_error"
	KindUpstreamNetwork   Kind = "upstream_network_error"
	KindUpstreamNonJSON   Kind = "upstream_non_json"
	KindUnexpected        Kind = "unexpected_error"
)

// Error is a request failure with a stable caller-visible classification.
// The wrapped cause stays server-side; only Message is shown to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to the status code returned to the caller.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindMissingRoutingKey, KindMalformedRequest, KindInvalidRole:
		return http.StatusBadRequest
	case KindUnknownProvider:
		return http.StatusNotFound
	case KindCredentialLoad:
		return http.StatusInternalServerError
	case KindUpstreamNetwork, KindUpstreamNonJSON:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds an Error without a wrapped cause.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds an Error around an underlying cause.
func WrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
