package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped when the backend answers with a non-2xx
	// status and no error message.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrUnexpectedDeckFormat is returned when /analyze_deck answers with a
	// final_deck that is not a list.
	ErrUnexpectedDeckFormat = errors.New("final deck data is not in the expected format")

	// ErrWeightsRejected is wrapped when /update_weights reports failure
	// without a message.
	ErrWeightsRejected = errors.New("weights update rejected")
)

// APIError is an error message reported by the backend in an "error" field.
// Error returns the message verbatim so it can be shown to users as is.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

// Detail includes the endpoint and status for logs.
func (e *APIError) Detail() string {
	return fmt.Sprintf("%s (status %d): %s", e.Endpoint, e.Status, e.Message)
}

// IsAPIError reports whether err carries a backend error message.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
