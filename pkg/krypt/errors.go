package krypt

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrorKindUnknown             ErrorKind = ""
	ErrorKindWalletUnavailable   ErrorKind = "wallet_unavailable"
	ErrorKindUserRejected        ErrorKind = "user_rejected"
	ErrorKindSubmissionFailed    ErrorKind = "submission_failed"
	ErrorKindLedgerUnreachable   ErrorKind = "ledger_unreachable"
	ErrorKindValidationFailed    ErrorKind = "validation_failed"
	ErrorKindConfirmationTimeout ErrorKind = "confirmation_timeout"
	ErrorKindBusy                ErrorKind = "busy"
)

// Error is a failure that the presentation layer can turn into a notice
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrUserRejected) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

var (
	ErrWalletUnavailable   = &Error{Kind: ErrorKindWalletUnavailable, Message: "no wallet found"}
	ErrUserRejected        = &Error{Kind: ErrorKindUserRejected, Message: "request rejected by user"}
	ErrSubmissionFailed    = &Error{Kind: ErrorKindSubmissionFailed, Message: "transaction submission failed"}
	ErrLedgerUnreachable   = &Error{Kind: ErrorKindLedgerUnreachable, Message: "ledger unreachable"}
	ErrValidationFailed    = &Error{Kind: ErrorKindValidationFailed, Message: "invalid transfer"}
	ErrConfirmationTimeout = &Error{Kind: ErrorKindConfirmationTimeout, Message: "transaction not confirmed in time"}
	ErrBusy                = &Error{Kind: ErrorKindBusy, Message: "a transfer is already in flight"}
)

func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of the first *Error in the chain, or ErrorKindUnknown
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ErrorKindUnknown
}

// WithKind wraps err with the given kind unless it already carries one
func WithKind(kind ErrorKind, message string, err error) error {
	if err == nil {
		return nil
	}

	if KindOf(err) != ErrorKindUnknown {
		return err
	}

	return NewError(kind, message, err)
}
