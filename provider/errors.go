package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindUpstreamHTTP is a non-2xx answer, or a 2xx answer whose body is an error payload.
	KindUpstreamHTTP
	// KindApplicationLimit is an in-band limit violation inside an otherwise successful stream.
	KindApplicationLimit
	// KindDecode means an error body was expected but could not be read as text.
	KindDecode
	// KindTransport covers every other network or connection failure.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindUpstreamHTTP:
		return "upstream_http"
	case KindApplicationLimit:
		return "application_limit"
	case KindDecode:
		return "decode"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is the single structured failure a provider reports.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Status  int       `json:"status"`
	Detail  string    `json:"detail"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

func NewError(kind ErrorKind, message string, status int, detail string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Status:  status,
		Detail:  detail,
	}
}

// WithCause returns a copy of e that wraps err.
func (e *Error) WithCause(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Message, e.Status, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// Wrap returns the *Error in err's chain, or reports err as an unexpected KindTransport
// failure with status 500.
func Wrap(err error) *Error {
	if perr, ok := AsError(err); ok {
		return perr
	}
	return NewError(KindTransport, err.Error(), http.StatusInternalServerError, "An unexpected error occurred").WithCause(err)
}
