package store

import (
	"errors"

	"github.com/aguxez/nutrilog/api"
)

// Error kinds returned by the mutating store actions. Match with errors.Is.
var (
	ErrAuth   = errors.New("authentication failed")
	ErrUpdate = errors.New("update failed")
	ErrLog    = errors.New("log operation failed")
)

// Error is a failed store action. Message is meant for the user: the backend's
// own message when it sent one, otherwise a fixed fallback.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func wrap(kind error, fallback string, err error) *Error {
	msg := fallback
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}
