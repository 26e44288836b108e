package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    50 * time.Millisecond,
	}
}

func TestDo_Success(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := testPolicy(3).Do(context.Background(), operation)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts, "should succeed on first try")
}

func TestDo_EventualSuccess(t *testing.T) {
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := testPolicy(5).Do(context.Background(), operation)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
}

func TestDo_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	operation := func() error {
		attempts++
		return expectedErr
	}

	err := testPolicy(3).Do(context.Background(), operation)
	require.Error(t, err)
	assert.Equal(t, expectedErr, err, "should return the original error unchanged")
	assert.Equal(t, 3, attempts, "should attempt exactly MaxAttempts times")
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	fatal := errors.New("validation failed")
	operation := func() error {
		attempts++
		return fatal
	}

	p := testPolicy(5)
	p.Classify = func(err error) bool { return false }

	err := p.Do(context.Background(), operation)
	require.Error(t, err)
	assert.Equal(t, fatal, err, "should return the original error unchanged")
	assert.Equal(t, 1, attempts, "should not retry a fatal error")
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	operation := func() error {
		attempts++
		if attempts == 2 {
			cancel() // Cancel after second attempt
		}
		return errors.New("error")
	}

	err := testPolicy(10).Do(ctx, operation)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled, "should return context.Canceled")
	assert.LessOrEqual(t, attempts, 2, "should stop when context is canceled")
}

func TestDo_InvalidMaxAttempts(t *testing.T) {
	err := Policy{}.Do(context.Background(), func() error { return nil })
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestDo_DelayCappedAtMaxDelay(t *testing.T) {
	p := Policy{
		MaxAttempts: 4,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    15 * time.Millisecond,
	}

	start := time.Now()
	attempts := 0
	_ = p.Do(context.Background(), func() error {
		attempts++
		return errors.New("error")
	})
	elapsed := time.Since(start)

	require.Equal(t, 4, attempts)
	// Delays: 10ms, then 20ms and 40ms capped to 15ms each = 40ms total.
	// Uncapped it would be 70ms.
	assert.Less(t, elapsed, 65*time.Millisecond, "delays should be capped at MaxDelay")
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "rate limited", err: errors.New("API returned unexpected status code: 429 Too Many Requests"), want: true},
		{name: "server error", err: errors.New("status code: 503 Service Unavailable"), want: true},
		{name: "connection refused", err: fmt.Errorf("post failed: %w", errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")), want: true},
		{name: "timeout message", err: errors.New("request timed out"), want: true},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "validation error", err: errors.New("invalid document"), want: false},
		{name: "not found", err: errors.New("record not found"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
