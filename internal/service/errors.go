package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The API layer maps each kind to an HTTP status.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindUnauthenticated    Kind = "unauthenticated"
	KindAccountDeactivated Kind = "account_deactivated"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindForbidden          Kind = "forbidden"
	KindForbiddenRole      Kind = "forbidden_role"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindInternal           Kind = "internal"
)

// Error is a failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind and message so sentinels compare equal to copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// --- Error Definitions ---
var (
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
	ErrAccountDeactivated = &Error{Kind: KindAccountDeactivated, Message: "Your account has been deactivated. Please contact support."}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Not authorized to access this route"}
	ErrInvalidToken       = &Error{Kind: KindUnauthenticated, Message: "Invalid or expired token"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Not authorized to perform this action"}
	ErrForbiddenRole      = &Error{Kind: KindForbiddenRole, Message: "Cannot register as admin through this endpoint"}
	ErrDuplicateEmail     = &Error{Kind: KindConflict, Message: "User with this email already exists"}
	ErrWrongPassword      = &Error{Kind: KindInvalidCredentials, Message: "Current password is incorrect"}
)

func ValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func ForbiddenError(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// InternalError wraps an unexpected failure. The message is generic.
func InternalError(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// AsError extracts a *Error from err. Anything else is reported as internal.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}
