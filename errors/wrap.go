package errors

import (
	"context"
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context while preserving the error
// chain. If err is nil, Wrap returns nil. If err is already a structured
// Error its code and category carry over; context deadline and cancellation
// errors become TIMEOUT; anything else becomes INTERNAL.
func Wrap(err error, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}

	var structured *Error
	if errors.As(err, &structured) {
		wrapped := &Error{
			code:      structured.code,
			category:  structured.category,
			message:   message,
			cause:     err,
			metadata:  structured.Metadata(),
			timestamp: structured.timestamp,
		}
		for _, opt := range opts {
			opt(wrapped)
		}
		return wrapped
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return New(ErrCodeTimeout, message, append(opts, WithCause(err))...)
	}

	return New(ErrCodeInternal, message, append(opts, WithCause(err))...)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific error code.
func WrapWithCode(err error, code ErrorCode, message string, opts ...Option) *Error {
	if err == nil {
		return nil
	}
	opts = append(opts, WithCause(err))
	return New(code, message, opts...)
}

// CodeOf extracts the error code from an error, returning INTERNAL for
// unstructured errors and the zero code for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var structured *Error
	if errors.As(err, &structured) {
		return structured.code
	}
	return ErrCodeInternal
}

// Is reports whether any error in err's chain carries the given code.
func Is(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
