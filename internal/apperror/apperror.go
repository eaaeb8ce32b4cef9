// Package apperror defines the error kinds surfaced to GraphQL callers.
// Every failure a resolver can produce is one of these kinds, so clients
// and tests can branch on errors[].extensions.kind instead of matching
// message text.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the caller
type Kind string

const (
	KindAuthorization Kind = "AUTHORIZATION"
	KindValidation    Kind = "VALIDATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindPersistence   Kind = "PERSISTENCE"
)

// Error is a classified error carried through resolvers into the
// GraphQL error envelope. Fields holds per-field validation messages.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Extensions implements graphql-go's gqlerrors.ExtendedError so the kind
// (and any field messages) survive error formatting into the envelope.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"kind": string(e.Kind)}
	if len(e.Fields) > 0 {
		fields := make(map[string]interface{}, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = v
		}
		ext["fields"] = fields
	}
	return ext
}

// Authorizationf builds an authorization error; the message must name the
// required role(s)
func Authorizationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Validationf builds a validation error without field detail
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationField builds a validation error attributed to a single field
func ValidationField(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// NotFoundf builds a not-found error. The message must not reveal whether
// the target exists under another tenant.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps an underlying store failure
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "persistence failure", cause: err}
}

// KindOf returns the kind of err, or "" when err carries no kind
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
