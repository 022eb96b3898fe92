// Package apperr defines the error kinds shared by the plan engine, the services and the
// HTTP layer. Handlers translate a Kind into a status code; everything else stays opaque.
package apperr

import (
	"errors"
	"strings"
)

// Kind classifies an error for callers.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindInvalidState
	KindInvalidInput
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidState:
		return "invalid_state"
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstream:
		return "upstream_failure"
	default:
		return "internal"
	}
}

// Sentinels for errors.Is matching against any *Error of the same kind.
var (
	ErrNotFound     = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrForbidden    = &Error{Kind: KindForbidden, Msg: "forbidden"}
	ErrInvalidState = &Error{Kind: KindInvalidState, Msg: "invalid state"}
	ErrInvalidInput = &Error{Kind: KindInvalidInput, Msg: "invalid input"}
	ErrUpstream     = &Error{Kind: KindUpstream, Msg: "upstream failure"}
)

// Error carries a kind, the operation that failed and a user-facing message.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

// New returns an error of the given kind. Msg should name the failed precondition.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap attaches a kind to an underlying error. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Msg != "" {
		parts = append(parts, e.Msg)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return e.Kind.String()
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports a match when target is an *Error sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Message returns the user-facing text, falling back to the wrapped error.
func (e *Error) Message() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		var inner *Error
		if errors.As(e.Err, &inner) {
			return inner.Message()
		}
		return e.Err.Error()
	}
	return e.Kind.String()
}

// KindOf returns the kind of the outermost *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindInternal && e.Err != nil {
			return KindOf(e.Err)
		}
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns a user-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return "internal error"
}

// Is reports whether err has the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
