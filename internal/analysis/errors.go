package analysis

import "errors"

// Error kinds surfaced by the analysis client.
var (
	ErrProviderUnavailable   = errors.New("analysis provider unavailable")
	ErrInvalidResponseFormat = errors.New("analysis provider returned an invalid response format")

	// ErrEmptyPayload is returned by ExtractJSON when nothing is left to parse.
	ErrEmptyPayload = errors.New("empty response payload")
)

// ResponseFormatError carries the raw provider text that could not be parsed.
type ResponseFormatError struct {
	Raw string
	Err error
}

func (e *ResponseFormatError) Error() string {
	return ErrInvalidResponseFormat.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *ResponseFormatError) Unwrap() []error {
	return []error{ErrInvalidResponseFormat, e.Err}
}

// ProviderError wraps a transport, auth or rate-limit failure.
type ProviderError struct {
	// StatusCode is the provider's HTTP status when known, 0 otherwise.
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return ErrProviderUnavailable.Error() + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() []error {
	return []error{ErrProviderUnavailable, e.Err}
}
