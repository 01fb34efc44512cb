package tracker

import (
	"errors"
	"fmt"
)

// Kind classifies failures that are reported back to the caller rather than
// treated as internal faults.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error carries a Kind and the message shown to API clients.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

var (
	ErrUserNotFound           = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrUsernameRequired       = &Error{Kind: KindValidation, Message: "Username required"}
	ErrExerciseFieldsRequired = &Error{Kind: KindValidation, Message: "Description and duration required"}
	ErrInvalidDate            = &Error{Kind: KindValidation, Message: "Invalid date"}
)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error with the same kind and message, so wrapped
// copies of the package-level errors still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func (e *Error) wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
