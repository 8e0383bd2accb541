package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the qualifier flow.
// The trigger maps these to error kinds for logging.
var (
	ErrConfigurationMissing = errors.New("configuration_missing")
	ErrMalformedResponse    = errors.New("malformed_response")
	ErrWebhookMissing       = errors.New("webhook_missing")
	ErrRunNotFound          = errors.New("run_not_found")
)

// FormatError reports a registration number that cannot yield a parity.
type FormatError struct {
	Value   string
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid registration number %q: %s", e.Value, e.Message)
}

// TransportError reports a failed outbound HTTP call: either Err is set or
// StatusCode holds the non-2xx status received.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: request failed", e.Op, e.URL)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies err into one of the flow's error kinds.
func ErrorKind(err error) string {
	var formatErr *FormatError
	var transportErr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &formatErr):
		return "format_error"
	case errors.As(err, &transportErr):
		return "transport_failure"
	case errors.Is(err, ErrConfigurationMissing):
		return ErrConfigurationMissing.Error()
	case errors.Is(err, ErrMalformedResponse):
		return ErrMalformedResponse.Error()
	case errors.Is(err, ErrWebhookMissing):
		return ErrWebhookMissing.Error()
	default:
		return "unknown"
	}
}
