package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for an empty city name. No request is made.
	ErrInvalidInput = errors.New("invalid input: city name is empty")
	// ErrBadRequest is returned when the request URL cannot be built.
	ErrBadRequest = errors.New("bad request: malformed request url")
)

// TransportError wraps a failure to get any response from the remote API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a logical failure reported inside an otherwise delivered response,
// e.g. an unknown city.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weather api error %d: %s", e.Code, e.Message)
}

// DecodeError reports a payload that does not match the observation schema.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode error: %s: %v", e.Reason, e.Err)
	}
	return "decode error: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }
