package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure so callers can render an actionable
// message instead of a generic one.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindInsufficientBalance
	KindUpload
	KindStore
)

// Error is the single error type crossing the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a service error, or 0 for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// MessageOf returns the user-facing message of a service error.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "something went wrong"
}

func validationErr(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func notFoundErr(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func insufficientErr(msg string) error {
	return &Error{Kind: KindInsufficientBalance, Message: msg}
}

func uploadErr(msg string, err error) error {
	return &Error{Kind: KindUpload, Message: msg, Err: err}
}

func storeErr(msg string, err error) error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}
