package rest

import (
	"errors"
	"fmt"
)

// Sentinel errors for the transport taxonomy. Callers classify failures with
// errors.Is; BackendError additionally carries the status and payload via
// errors.As.
var (
	// ErrConnectivity covers DNS, TCP, timeout, and truncated-body failures.
	ErrConnectivity = errors.New("cannot connect to hub")
	// ErrAuthentication is a 401 from the hub; the secret is wrong or stale.
	ErrAuthentication = errors.New("hub rejected secret (check secret)")
	// ErrNotFound is a 404 from the hub.
	ErrNotFound = errors.New("hub endpoint not found")
)

// BackendError is any other non-2xx response from the hub.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("hub returned status %d: %s", e.StatusCode, e.Body)
}
