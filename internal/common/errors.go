// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Validation errors.
	ErrMissingFiles = errors.New("both files are required")
	ErrFileNotFound = errors.New("file not found")

	// Remote errors.
	ErrProcessingFailed = errors.New("processing failed")
	ErrExportFailed     = errors.New("export failed")
	ErrServerUnhealthy  = errors.New("classification service unhealthy")

	// Session errors.
	ErrBusy     = errors.New("request already in progress")
	ErrNoResult = errors.New("no analysis result yet")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
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

// UserMessage returns the text to display for err: the UserMessage of the
// outermost UserError, or err's own text. Joined errors give one line each.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, UserMessage(e))
		}
		return strings.Join(msgs, "\n")
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
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
