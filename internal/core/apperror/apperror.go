// Package apperror holds the error taxonomy shared by every feature:
// validation failures, domain-rule violations, session and permission
// failures, and duplicate in-flight requests. Backend failures live with
// the HTTP client that produces them.
package apperror

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when the session is missing, invalid or expired.
	ErrUnauthorized = errors.New("session expired, please sign in again")
	// ErrForbidden is returned when the caller lacks the role for an action.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRequestInFlight is returned when the same action is already being processed.
	ErrRequestInFlight = errors.New("request already in progress")
)

// DomainError is a local business-rule violation detected before any backend call.
type DomainError struct {
	// Code is the stable machine-readable identifier (e.g. COUPON_LOCKED).
	Code string
	// Message is the user-facing explanation.
	Message string
}

// NewDomain creates a DomainError. Declare them once as package variables so
// errors.Is can match by identity.
func NewDomain(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	return e.Message
}

// ValidationError reports field-level input problems.
type ValidationError struct {
	// Fields maps a field name to its message.
	Fields map[string]string
}

// NewValidation creates a ValidationError with a single field message.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsDomain extracts a DomainError from an error chain.
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// AsValidation extracts a ValidationError from an error chain.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
