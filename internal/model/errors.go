package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies errors for rendering at the API boundary.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuthentication
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Sentinels matched by errors.Is against any AppError of the same kind.
var (
	ErrValidation     = &AppError{Kind: KindValidation, Message: "invalid input"}
	ErrAuthentication = &AppError{Kind: KindAuthentication, Message: "authentication failed"}
	ErrNotFound       = &AppError{Kind: KindNotFound, Message: "not found"}
	ErrConflict       = &AppError{Kind: KindConflict, Message: "conflict"}
	ErrInternal       = &AppError{Kind: KindInternal, Message: "internal error"}
)

// Credential verification failures. Both are authentication errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// AppError is an error with a client-safe message.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports kind equality so that errors.Is(err, ErrConflict) holds for any conflict.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Server error"
}

func NewErrValidation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewErrDuplicateUsername(username string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Message: "Username already exists",
		Err:     fmt.Errorf("username %q is taken", username),
	}
}

// NewErrInvalidCredentials hides whether the user or the password was wrong.
func NewErrInvalidCredentials(cause error) *AppError {
	return &AppError{Kind: KindAuthentication, Message: "Invalid credentials", Err: cause}
}

func NewErrUnauthorized(cause error) *AppError {
	return &AppError{Kind: KindAuthentication, Message: "Unauthorized", Err: cause}
}

func NewErrNotFound(entity string) *AppError {
	return &AppError{Kind: KindNotFound, Message: entity + " not found"}
}

func NewErrConflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewErrInternal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal error", Err: err}
}
