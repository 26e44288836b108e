package retry

import "errors"

// ErrInvalidMaxAttempts indicates a policy with a non-positive attempt count.
var ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
