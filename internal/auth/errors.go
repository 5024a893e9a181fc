package auth

import (
	"errors"
	"fmt"
)

// Kind tags an Error. The taxonomy is transport-agnostic; the HTTP layer
// owns the mapping to status codes.
type Kind int

const (
	KindInvalidCredentials Kind = iota + 1
	KindUserNotFound
	KindEmailAlreadyExists
	KindDatabase
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindUserNotFound:
		return "USER_NOT_FOUND"
	case KindEmailAlreadyExists:
		return "EMAIL_ALREADY_EXISTS"
	case KindDatabase:
		return "DATABASE_ERROR"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the only error type returned by Service.
// Message is safe to show to clients; Err is the internal cause and is not.
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

// Is matches another *Error by Kind, so errors.Is(err, ErrUnauthorized) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Client-facing messages. Credential failures share one message so the
// response does not reveal whether an email is registered.
const (
	msgInvalidCredentials = "invalid email or password"
	msgEmailExists        = "email is already in use"
	msgUnauthorized       = "not authenticated"
	msgDatabase           = "internal error, please try again"
)

// Sentinels for errors.Is; they carry no cause.
var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: msgInvalidCredentials}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound, Message: msgInvalidCredentials}
	ErrEmailAlreadyExists = &Error{Kind: KindEmailAlreadyExists, Message: msgEmailExists}
	ErrDatabase           = &Error{Kind: KindDatabase, Message: msgDatabase}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized, Message: msgUnauthorized}
)

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// AsError extracts the *Error from err. Anything else is reported as a
// database/internal failure so callers always get a Kind.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return newError(KindDatabase, msgDatabase, err)
}
