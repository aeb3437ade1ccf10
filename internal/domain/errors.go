package domain

import (
	"errors"
	"fmt"
)

// Error kinds for consistent error handling across the client core.
// Every failure a caller can see carries exactly one of them.
type ErrorKind int

const (
	KindTransport ErrorKind = iota + 1
	KindStatus
	KindValidation
	KindComposite
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindValidation:
		return "validation"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

const (
	// MsgUnexpectedResponse is shown for transport and parse failures.
	MsgUnexpectedResponse = "unexpected server response"
	// MsgRequestFailed is the fallback when a failure status carries no message.
	MsgRequestFailed = "request failed"
)

// ErrTokenNotReturned means login succeeded at the HTTP level but the body had
// neither accessToken nor token.
var ErrTokenNotReturned = errors.New("token not returned")

// ErrNotAuthenticated rejects page switches while logged out.
var ErrNotAuthenticated = errors.New("log in to navigate")

// Error is the normalized failure raised by the request client, the
// repositories and the form controllers.
type Error struct {
	Kind    ErrorKind
	Message string
	Field   string // validation only
	Status  int    // status only
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransport wraps a network or parse failure.
func NewTransport(err error) *Error {
	return &Error{Kind: KindTransport, Message: MsgUnexpectedResponse, Err: err}
}

// NewStatus builds a status failure; an empty message falls back to MsgRequestFailed.
func NewStatus(status int, message string) *Error {
	if message == "" {
		message = MsgRequestFailed
	}
	return &Error{Kind: KindStatus, Status: status, Message: message}
}

// NewValidation reports a local rule violation on one field.
func NewValidation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewComposite reports a multi-step submission whose first step succeeded
// and whose second step failed with err. Nothing is rolled back.
func NewComposite(first, second string, err error) *Error {
	return &Error{
		Kind:    KindComposite,
		Message: fmt.Sprintf("%s saved, but %s failed: %s", first, second, MessageOf(err)),
		Err:     err,
	}
}

// KindOf returns the kind of err, or 0 when err is not a *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// MessageOf returns the human-readable message of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
