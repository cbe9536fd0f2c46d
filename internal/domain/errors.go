// Package domain defines the closed set of error kinds shared by the
// scheduling and visit cores. Callers classify failures with errors.Is
// against the kind sentinels; the HTTP layer maps each kind to a status.
package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindIllegalState
	KindOwnershipMismatch
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindIllegalState:
		return "illegal_state"
	case KindOwnershipMismatch:
		return "ownership_mismatch"
	default:
		return "unknown"
	}
}

// Error is a domain failure with a fixed kind. Two Errors match under
// errors.Is when their kinds are equal, so the sentinels below work as
// classification targets regardless of message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks.
var (
	ErrValidation        = &Error{Kind: KindValidation, Msg: "validation error"}
	ErrNotFound          = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrConflict          = &Error{Kind: KindConflict, Msg: "conflict"}
	ErrIllegalState      = &Error{Kind: KindIllegalState, Msg: "illegal state"}
	ErrOwnershipMismatch = &Error{Kind: KindOwnershipMismatch, Msg: "ownership mismatch"}
)

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func IllegalStatef(format string, args ...any) *Error {
	return &Error{Kind: KindIllegalState, Msg: fmt.Sprintf(format, args...)}
}

func OwnershipMismatchf(format string, args ...any) *Error {
	return &Error{Kind: KindOwnershipMismatch, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err, or zero when err is not a domain Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
