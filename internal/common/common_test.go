package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/Veraticus/search-term-analyzer/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	base := errors.New("connection refused")
	err := NewUserError("Failed to process files", base)

	assert.Equal(t, "Failed to process files", UserMessage(err))
	assert.Equal(t, "Failed to process files: connection refused", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Empty(t, UserMessage(nil))

	joined := errors.Join(
		NewUserError("Sponsored Products: Missing required columns", base),
		errors.New("Sponsored Display: timeout"))
	assert.Equal(t, "Sponsored Products: Missing required columns\nSponsored Display: timeout", UserMessage(joined))
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: errors.New("bad request"), Retryable: false}
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Millisecond})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_Exhausted(t *testing.T) {
	err := WithRetry(context.Background(), func() error {
		return errors.New("down")
	}, service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond})

	assert.ErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetry_StopsOnPermanentStatus(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return ClassifyStatus(http.StatusForbidden, errors.New("caller does not have permission"))
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Millisecond})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMaxRetries)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RetriesUnavailableStatus(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return ClassifyStatus(http.StatusServiceUnavailable, errors.New("backend waking up"))
		}
		return nil
	}, service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("interrupted")
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Millisecond})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryableStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, false},
		{http.StatusNotImplemented, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, RetryableStatus(tt.code))
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("quota exceeded")

	limited := ClassifyStatus(http.StatusTooManyRequests, base)
	assert.ErrorIs(t, limited, ErrRateLimit)
	assert.ErrorIs(t, limited, base)
	assert.True(t, IsRetryable(limited))

	denied := ClassifyStatus(http.StatusForbidden, base)
	assert.NotErrorIs(t, denied, ErrRateLimit)
	assert.False(t, IsRetryable(denied))
	var tagged *RetryableError
	require.ErrorAs(t, denied, &tagged)
	assert.Equal(t, http.StatusForbidden, tagged.StatusCode)

	assert.NoError(t, ClassifyStatus(http.StatusForbidden, nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(ErrExportFailed))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "tab", "products")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"tab":"products"`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.Error(t, err)

	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
