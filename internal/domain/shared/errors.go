// Package shared contains common domain types, errors, and events used
// across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors for errors.Is() checking.
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Concurrency errors
	ErrConflict       = errors.New("concurrent modification detected")
	ErrRetryExhausted = errors.New("retry budget exhausted")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External collaborator errors
	ErrProvider           = errors.New("content provider error")
	ErrProviderTimeout    = errors.New("content provider timeout")
	ErrServiceUnavailable = errors.New("service unavailable")

	// Persistence errors
	ErrStore = errors.New("store failure")
)

// DomainError carries the context of a failed domain operation.
type DomainError struct {
	Domain  string // e.g. "ledger", "social", "provider"
	Op      string // operation that failed, e.g. "AwardXP"
	Kind    error  // base error for errors.Is() matching
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both Kind and Err.
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
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message, Err: err}
}

// Ledger domain errors
var (
	ErrUserNotFound      = NewDomainError("ledger", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists = NewDomainError("ledger", "Create", ErrAlreadyExists, "user already exists")
	ErrNonPositiveXP     = NewDomainError("ledger", "AwardXP", ErrValueOutOfRange, "xp amount must be positive")
	ErrStreakConflict    = NewDomainError("ledger", "UpdateStreak", ErrConflict, "streak update lost a concurrent race")
	ErrInvalidActivity   = NewDomainError("ledger", "RecordActivity", ErrInvalidInput, "unknown activity type")
)

// Learning domain errors
var (
	ErrTopicNotFound     = NewDomainError("learning", "FindTopic", ErrNotFound, "topic not found")
	ErrSessionNotFound   = NewDomainError("learning", "FindSession", ErrNotFound, "learning session not found")
	ErrEmptyContent      = NewDomainError("learning", "Validate", ErrEmptyValue, "content set is empty")
	ErrUnknownContent    = NewDomainError("learning", "Validate", ErrInvalidInput, "unknown content kind")
	ErrMalformedContent  = NewDomainError("learning", "Validate", ErrInvalidFormat, "malformed provider content")
	ErrDuplicateTopic    = NewDomainError("learning", "CreateTopic", ErrAlreadyExists, "topic already exists")
	ErrContentSetMissing = NewDomainError("learning", "FindContent", ErrNotFound, "content set not found")
)

// Social domain errors
var (
	ErrPostNotFound    = NewDomainError("social", "FindPost", ErrNotFound, "post not found")
	ErrEmptyPost       = NewDomainError("social", "CreatePost", ErrEmptyValue, "post content is empty")
	ErrInvalidLimit    = NewDomainError("social", "ComposeFeed", ErrValueOutOfRange, "limit must be a positive integer")
	ErrToggleConflict  = NewDomainError("social", "ToggleLike", ErrConflict, "like toggle lost a concurrent race")
	ErrSelfInteraction = NewDomainError("social", "ToggleLike", ErrInvalidInput, "invalid interaction target")
)

// Provider errors
var (
	ErrProviderFailed      = NewDomainError("provider", "Generate", ErrProvider, "content provider request failed")
	ErrProviderUnavailable = NewDomainError("provider", "Generate", ErrServiceUnavailable, "content provider unavailable")
	ErrProviderBadPayload  = NewDomainError("provider", "Parse", ErrInvalidFormat, "provider returned malformed content")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is any validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsConflict checks if the error is a concurrent-write collision.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrRetryExhausted)
}

// IsProvider checks if the error comes from the content provider.
func IsProvider(err error) bool {
	return errors.Is(err, ErrProvider) ||
		errors.Is(err, ErrProviderTimeout) ||
		errors.Is(err, ErrServiceUnavailable)
}

// IsStore checks if the error is a persistence failure.
func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}
