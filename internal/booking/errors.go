package booking

import "fmt"

// ValidationError reports malformed booking input.  It is raised before
// any side effect, so a caller can correct the request and retry freely.
type ValidationError struct {
    Reason string
}

func (e *ValidationError) Error() string {
    return "invalid booking request: " + e.Reason
}

// PaymentFailedError reports that the payment provider rejected the
// charge.  No inventory or hold state has been touched when it is raised.
type PaymentFailedError struct {
    Provider string
    Reason   string
}

func (e *PaymentFailedError) Error() string {
    return fmt.Sprintf("payment via %s failed: %s", e.Provider, e.Reason)
}

// StorageUnavailableError reports that a backing store (the hold store or
// the database) could not be reached.  The attempt had no durable effect
// and the caller may retry.
type StorageUnavailableError struct {
    Store string
    Err   error
}

func (e *StorageUnavailableError) Error() string {
    return fmt.Sprintf("%s unavailable: %v", e.Store, e.Err)
}

// Unwrap exposes the underlying store error for errors.Is/As chains.
func (e *StorageUnavailableError) Unwrap() error {
    return e.Err
}
