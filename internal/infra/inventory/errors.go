package inventory

import (
	"context"
	"errors"
	"fmt"
)

// TransportError wraps connection-level failures: refused connections,
// timeouts, DNS. The operator sees these as "cannot reach service".
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("inventory: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a structured failure reported by the service itself; its
// message is shown to the operator verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inventory: service rejected request (%d): %s", e.Status, e.Message)
}

// IsCancelled reports whether an error is a superseded or aborted request.
// Cancellations are never surfaced to the operator.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
