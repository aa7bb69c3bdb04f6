package client

import (
	"errors"
	"fmt"
)

// ServerError represents a failed exchange with the portal backend.
// A status greater than zero means the backend rejected the request with that
// HTTP status code; a status of exactly zero means no response was received
// at all (network failure, DNS failure or a timeout at the transport layer).
type ServerError struct {
	Status  int
	Message string
}

var _ error = (*ServerError)(nil)

// Error implements the error interface
func (err *ServerError) Error() string {
	if err.Status == 0 {
		return fmt.Sprintf("portal backend unreachable: %s", err.Message)
	}
	return fmt.Sprintf("portal backend rejected the request (status %d): %s", err.Status, err.Message)
}

// IsUnreachable returns whether the given error is a ServerError signaling
// that no response was received from the backend
func IsUnreachable(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr) && serverErr.Status == 0
}
