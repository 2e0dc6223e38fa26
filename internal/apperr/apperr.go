// Package apperr defines the error kinds shared by the service and API layers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnhandled Kind = iota
	KindValidation
	KindNotFound
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRender:
		return "render"
	default:
		return "unhandled"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationDetails builds a validation error carrying per-field messages.
func ValidationDetails(message string, details []string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NotFound(entity string, key any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", entity, key)}
}

func Render(err error) *Error {
	return &Error{Kind: KindRender, Message: "report rendering failed", Err: err}
}

func Wrap(err error, message string) *Error {
	return &Error{Kind: KindUnhandled, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnhandled
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
