// Package signer defines the contract every per-chain signer implements:
// the SignOperation request shape, the {encoded, extend} result, and the
// error taxonomy shared by the dispatcher and the request front-end.
package signer

import (
	"github.com/cockroachdb/errors"
)

// Kind enumerates the error taxonomy from the error handling design.
// Every error that escapes a signer or the key engine carries exactly
// one Kind so the front-end can render a stable machine-readable tag.
type Kind string

const (
	KindInputParseError  Kind = "InputParseError"
	KindUnknownCommand   Kind = "UnknownCommand"
	KindUnknownCoin      Kind = "UnknownCoin"
	KindUnsupportedChain Kind = "UnsupportedChain"
	KindUnsupportedMethod Kind = "UnsupportedMethod"
	KindAddressMismatch  Kind = "AddressMismatch"
	KindInputInvalid     Kind = "InputInvalid"
	KindOutputInvalid    Kind = "OutputInvalid"
	KindSigningFailed    Kind = "SigningFailed"
	KindDerivationFailed Kind = "DerivationFailed"
	KindInternalError    Kind = "InternalError"
)

// Error is the single result type every layer of the worker returns.
// It never carries key material: callers must pass only coin ids,
// method names, and library-level messages into Message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a taxonomy error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a taxonomy Kind to an underlying library error without
// leaking anything beyond its message text.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.Wrap(cause, message)}
}

// As reports whether err (or something it wraps) is a *Error and
// returns it, mirroring errors.As for the taxonomy type.
func As(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// KindOf extracts the Kind of err, defaulting to KindInternalError for
// anything that didn't originate in this package.
func KindOf(err error) Kind {
	if se, ok := As(err); ok {
		return se.Kind
	}
	return KindInternalError
}
