// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/four-pillars/internal/model"
)

// Common application errors.
var (
	// Input errors.
	ErrInvalidDate = errors.New("invalid date")
	// ErrUnknownSymbol is shared with the model package so table lookups and callers agree.
	ErrUnknownSymbol = model.ErrUnknownSymbol

	// Geocoding errors.
	ErrLocationNotFound         = errors.New("location not found")
	ErrTimezoneResolutionFailed = errors.New("timezone resolution failed")
	ErrGeocoderUnavailable      = errors.New("geocoder unavailable")
	ErrOfflineLookup            = errors.New("place not available offline")

	// Database errors.
	ErrNotFound          = errors.New("not found")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsUserError reports whether err can be fixed by the caller changing its input.
func IsUserError(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrLocationNotFound)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
