// Package shared contains common domain types and errors that are used
// across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors. ErrInvalidInput is the InvalidArgument kind.
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// External service errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "profile", "matching", "chat"
	Op      string // Operation that failed, e.g., "Propose", "Accept"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Profile domain errors
var (
	ErrProfileNotFound     = NewDomainError("profile", "Find", ErrNotFound, "profile not found")
	ErrInvalidProfileID    = NewDomainError("profile", "Validate", ErrInvalidInput, "profile id is required")
	ErrInvalidProfileName  = NewDomainError("profile", "Validate", ErrInvalidInput, "profile name is required")
	ErrInvalidSkill        = NewDomainError("profile", "Validate", ErrInvalidInput, "skill id and name are required")
	ErrInvalidSkillLevel   = NewDomainError("profile", "Validate", ErrInvalidInput, "invalid skill level")
	ErrDuplicateSkill      = NewDomainError("profile", "Validate", ErrInvalidInput, "skill listed twice")
	ErrInvalidLearningGoal = NewDomainError("profile", "Validate", ErrInvalidInput, "learning goal id and name are required")
)

// Matching domain errors
var (
	ErrRelationshipNotFound = NewDomainError("matching", "Find", ErrNotFound, "relationship not found")
	ErrSelfMatch            = NewDomainError("matching", "Propose", ErrInvalidInput, "a profile cannot match itself")
	ErrInvalidScore         = NewDomainError("matching", "Validate", ErrValueOutOfRange, "score must be between 0 and 1")
	ErrInvalidMinScore      = NewDomainError("matching", "Filter", ErrInvalidInput, "minimum score must be between 0 and 100")
	ErrRelationshipFinal    = NewDomainError("matching", "Respond", ErrStateTransition, "relationship is no longer pending")
	ErrNotParticipant       = NewDomainError("matching", "Authorize", ErrForbidden, "profile is not part of this relationship")
	ErrNotReceiver          = NewDomainError("matching", "Respond", ErrForbidden, "only the invited profile can respond")
)

// Chat domain errors
var (
	ErrEmptyMessage       = NewDomainError("chat", "Send", ErrEmptyValue, "message content cannot be empty")
	ErrMessageTooLong     = NewDomainError("chat", "Send", ErrValueOutOfRange, "message content is too long")
	ErrRelationshipClosed = NewDomainError("chat", "Send", ErrInvalidState, "messages require an accepted relationship")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange)
}

// IsConflict checks if the error reports an invalid state or transition.
func IsConflict(err error) bool {
	return errors.Is(err, ErrStateTransition) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrAlreadyExists)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
