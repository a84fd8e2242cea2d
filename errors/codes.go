package errors

import "net/http"

// ErrorCategory classifies errors by how the caller should handle them.
type ErrorCategory string

const (
	// CategoryClient indicates the request itself was at fault.
	// Examples: unknown job id, malformed request body.
	CategoryClient ErrorCategory = "client"

	// CategoryUpstream indicates an external collaborator failed.
	// Examples: embedding API error, LLM provider unavailable.
	CategoryUpstream ErrorCategory = "upstream"

	// CategoryDegradable indicates a failure that is absorbed locally by a
	// deterministic fallback and never surfaced to the caller.
	// Examples: unparseable weight JSON, narrative generation failure.
	CategoryDegradable ErrorCategory = "degradable"

	// CategoryInternal indicates persistence failures, bugs, or anything
	// unexpected.
	CategoryInternal ErrorCategory = "internal"
)

// String returns the string representation of the category.
func (c ErrorCategory) String() string {
	return string(c)
}

// Surfaced reports whether errors in this category reach the HTTP caller.
func (c ErrorCategory) Surfaced() bool {
	return c != CategoryDegradable
}

// ErrorCode identifies specific failure types within categories.
type ErrorCode string

const (
	// ErrCodeNotFound marks a missing job or an uncomputed common-aspect set.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput marks a malformed request.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeUpstream marks a primary-path external service failure
	// (job embedding, initial vector search).
	ErrCodeUpstream ErrorCode = "UPSTREAM"

	// ErrCodeMalformedOutput marks unparseable upstream output. Always
	// absorbed by a fallback, never surfaced.
	ErrCodeMalformedOutput ErrorCode = "MALFORMED_OUTPUT"

	// ErrCodePersistence marks a storage read or write failure.
	ErrCodePersistence ErrorCode = "PERSISTENCE"

	// ErrCodeTimeout marks an external call that exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeInternal marks everything else.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// String returns the string representation of the error code.
func (c ErrorCode) String() string {
	return string(c)
}

// DefaultCategory returns the default category for an error code.
func (c ErrorCode) DefaultCategory() ErrorCategory {
	switch c {
	case ErrCodeNotFound, ErrCodeInvalidInput:
		return CategoryClient
	case ErrCodeUpstream, ErrCodeTimeout:
		return CategoryUpstream
	case ErrCodeMalformedOutput:
		return CategoryDegradable
	case ErrCodePersistence, ErrCodeInternal:
		return CategoryInternal
	default:
		return CategoryInternal
	}
}

// HTTPStatus maps the code to the status returned by the HTTP layer.
// Degradable codes should never reach that layer; if one does it is a bug
// and reported as 500.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// codeDescriptions provides human-readable descriptions for error codes.
var codeDescriptions = map[ErrorCode]string{
	ErrCodeNotFound:        "resource not found",
	ErrCodeInvalidInput:    "invalid input provided",
	ErrCodeUpstream:        "upstream service failure",
	ErrCodeMalformedOutput: "malformed upstream output",
	ErrCodePersistence:     "storage operation failed",
	ErrCodeTimeout:         "operation timed out",
	ErrCodeInternal:        "internal error",
}

// Description returns a human-readable description for the error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}
