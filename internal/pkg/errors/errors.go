package errors

import "errors"

var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInsufficientPermission = errors.New("insufficient permission")
	ErrDatabaseError          = errors.New("database error")
	ErrCacheError             = errors.New("cache error")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPersistence            = errors.New("usage store unavailable")
)

type Error struct {
	Err     error
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
		Code:    "INTERNAL_ERROR",
	}
}

// WrapAs attaches a sentinel to a cause so callers can errors.Is
// against the sentinel without losing the underlying error.
func WrapAs(sentinel, err error, message string) *Error {
	return &Error{
		Err:     errors.Join(sentinel, err),
		Message: message,
		Code:    "INTERNAL_ERROR",
	}
}
