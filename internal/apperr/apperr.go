// Package apperr defines the typed errors the service layer returns.
// Services never panic on business-rule violations; they return one of
// these kinds and the transport layer maps it to an HTTP status.
package apperr

import (
	"errors"
	"net/http"
)

// Kind categorizes a domain failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound: the target record is absent.
	KindNotFound
	// KindValidation: input failed field-level validation.
	KindValidation
	// KindAccessDenied: authenticated but not authorized for this record.
	KindAccessDenied
	// KindAuthentication: bad credentials; unknown-user and wrong-password
	// are indistinguishable to the caller.
	KindAuthentication
	// KindConflict: the store rejected a duplicate (e.g. username taken).
	KindConflict
	// KindInvalidArgument: an unrecognized filter or enum value.
	KindInvalidArgument
	// KindTokenMalformed: a token string that cannot be parsed at all.
	KindTokenMalformed
	// KindConfiguration: missing or invalid configuration; fatal at startup.
	KindConfiguration
	// KindInternal: unexpected failure, including store errors.
	KindInternal
)

// FieldError carries a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error with a Kind for status mapping.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the kind to the status the REST layer responds with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidArgument, KindTokenMalformed:
		return http.StatusBadRequest
	case KindAccessDenied:
		return http.StatusForbidden
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New creates an error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error with the given kind wrapping an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error        { return New(KindNotFound, message) }
func AccessDenied(message string) *Error    { return New(KindAccessDenied, message) }
func Authentication(message string) *Error  { return New(KindAuthentication, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func InvalidArgument(message string) *Error { return New(KindInvalidArgument, message) }
func TokenMalformed(message string) *Error  { return New(KindTokenMalformed, message) }
func Configuration(message string) *Error   { return New(KindConfiguration, message) }
func Internal(message string) *Error        { return New(KindInternal, message) }

// Validation creates a validation error carrying field-level messages.
func Validation(message string, fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf extracts the kind from an error chain. Non-apperr errors
// report KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
