// Package apperr classifies errors crossing component boundaries so that only
// the HTTP layer decides on status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of an error
type Kind int

const (
	Unclassified Kind = iota
	Validation
	NotFound
	TransientLookup
	Persistence
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case TransientLookup:
		return "transient_lookup"
	case Persistence:
		return "persistence"
	default:
		return "unclassified"
	}
}

// Error carries a Kind, the operation that failed and an optional cause.
// Message is safe to show to API callers.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error
func E(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Invalid reports malformed input
func Invalid(op, message string) error {
	return E(Validation, op, message, nil)
}

// Missing reports an absent airport or flight
func Missing(op, message string) error {
	return E(NotFound, op, message, nil)
}

// Lookup wraps a provider failure
func Lookup(op string, err error) error {
	return E(TransientLookup, op, "", err)
}

// Store wraps a persistence failure
func Store(op string, err error) error {
	return E(Persistence, op, "", err)
}

// KindOf returns the Kind of the first *Error in err's chain, or Unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unclassified
}

// MessageOf returns the caller-facing message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
