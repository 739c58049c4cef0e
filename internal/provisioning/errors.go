package provisioning

import (
	"errors"
	"fmt"
)

// ErrorCode classifies provider errors independently of the provider.
type ErrorCode string

// Error codes produced by the platform clients.
const (
	ErrorCodeAlreadyExists ErrorCode = "already_exists"
	ErrorCodeNotFound      ErrorCode = "not_found"
	ErrorCodeInvalidInput  ErrorCode = "invalid_input"
	ErrorCodeUnknown       ErrorCode = "unknown"
)

// APIError is returned by Provider implementations for any failed call or
// failed operation. Code is derived from the provider's structured error
// fields, never from the message text.
type APIError struct {
	Op       string // e.g. "insert firewall"
	Resource string
	Code     ErrorCode
	Err      error
}

func (e *APIError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s %s failed (%s): %v", e.Op, e.Resource, e.Code, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAlreadyExists reports whether err is an APIError for a resource that exists.
func IsAlreadyExists(err error) bool {
	return hasCode(err, ErrorCodeAlreadyExists)
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

func hasCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// ErrUnreachable is matched by every ReachabilityTimeoutError.
var ErrUnreachable = errors.New("host unreachable over SSH")

// ReachabilityTimeoutError is returned once the probe's attempt budget is spent.
type ReachabilityTimeoutError struct {
	Address  string
	Attempts int
	Err      error // last probe failure
}

func (e *ReachabilityTimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for SSH on %s after %d attempts: %v", e.Address, e.Attempts, e.Err)
}

func (e *ReachabilityTimeoutError) Unwrap() error {
	return e.Err
}

// Is matches ErrUnreachable.
func (e *ReachabilityTimeoutError) Is(target error) bool {
	return target == ErrUnreachable
}
