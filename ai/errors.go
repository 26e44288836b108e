package ai

import "errors"

var (
	// ErrProviderUnavailable indicates the AI service could not be reached.
	ErrProviderUnavailable = errors.New("ai provider unavailable")

	// ErrEmptyInput indicates the input text was empty.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrInputTooLarge indicates a text exceeded the provider's input limit.
	// Not retryable; the item must be skipped or split further.
	ErrInputTooLarge = errors.New("input text too large")

	// ErrMalformedResponse indicates the model returned output that could
	// not be parsed even after repair.
	ErrMalformedResponse = errors.New("malformed model response")
)
