package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/search-term-analyzer/internal/service"
)

var (
	// ErrRateLimit means the remote side asked us to slow down (HTTP 429).
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries means every attempt of an idempotent call failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError marks whether a failed call may be repeated as-is.
type RetryableError struct {
	Err        error
	StatusCode int
	Retryable  bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// RetryableStatus reports whether an HTTP status is worth another attempt:
// timeouts, throttling and the gateway or availability errors a sleeping
// host answers with while it wakes. Other 4xx answers will not change.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// ClassifyStatus tags err with the retry decision for the HTTP status it
// came with. A 429 also wraps ErrRateLimit so WithRetry backs off fully.
func ClassifyStatus(code int, err error) error {
	if err == nil {
		return nil
	}
	if code == http.StatusTooManyRequests {
		err = fmt.Errorf("%w: %w", ErrRateLimit, err)
	}
	return &RetryableError{Err: err, StatusCode: code, Retryable: RetryableStatus(code)}
}

// WithRetry repeats an idempotent operation with exponential backoff.
// Failures tagged non-retryable and cancellation of ctx end it at once.
// Requests that may trigger a server-side recomputation must not go
// through here.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}

	delay := opts.InitialDelay

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var tagged *RetryableError
		if errors.As(err, &tagged) && !tagged.Retryable {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, err)
		}

		wait := delay
		if errors.Is(err, ErrRateLimit) {
			wait = opts.MaxDelay
		}

		slog.Warn("Remote call failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", wait,
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = min(time.Duration(float64(delay)*opts.Multiplier), opts.MaxDelay)
	}
}
