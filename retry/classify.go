package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/studyowl/studyowl/ai"
)

// transientFragments are substrings of provider error messages that
// indicate a transient condition. HTTP client libraries surface status
// codes in message text, so 429 and 5xx are matched here.
var transientFragments = []string{
	"429",
	"too many requests",
	"rate limit",
	"status code: 5",
	"500",
	"502",
	"503",
	"504",
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"temporarily unavailable",
	"eof",
}

// IsTransient classifies an error as retryable. Network-level failures,
// rate limiting and 5xx provider responses are transient; validation
// errors, not-found and context cancellation are fatal.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, ai.ErrProviderUnavailable) {
		return true
	}
	if errors.Is(err, ai.ErrInputTooLarge) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range transientFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
