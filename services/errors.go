package services

import (
	"errors"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindInvalidCredentials
	KindUnauthenticated
	KindForbidden
	KindCreateFailed
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindCreateFailed:
		return "create_failed"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is what services return to handlers. Message is safe to show to
// clients; Err is the cause and only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Message so callers can compare against the exported values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "Email already taken"}
	ErrPhoneTaken         = &Error{Kind: KindConflict, Message: "Phone already taken"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Message: "Invalid or expired token"}
	ErrForbidden          = &Error{Kind: KindForbidden, Message: "Admin privileges required"}
	ErrUserCreateFailed   = &Error{Kind: KindCreateFailed, Message: "Unable to create user"}
	ErrPropertyCreate     = &Error{Kind: KindCreateFailed, Message: "Unable to create property"}
	ErrPropertyNotFound   = &Error{Kind: KindNotFound, Message: "Property not found"}
)

func wrap(base *Error, cause error) *Error {
	return &Error{Kind: base.Kind, Message: base.Message, Fields: base.Fields, Err: cause}
}

func validationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
