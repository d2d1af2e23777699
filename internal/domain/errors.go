package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownAsset   = errors.New("unknown asset")
	ErrInvalidPayload = errors.New("invalid response format")
)

// NetworkError reports a timeout or connectivity failure talking to the price feed.
type NetworkError struct {
	Msg string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Msg == "" {
		return "Network request failed"
	}
	return e.Msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError reports a non-success response or a malformed payload.
// Status is zero when the response itself was fine but the body was not.
type APIError struct {
	Status int
	Msg    string
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Msg)
	}
	return e.Msg
}

func (e *APIError) Unwrap() error { return e.Err }
