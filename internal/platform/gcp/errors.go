package gcp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/googleapi"

	"github.com/imamik/genesis/internal/provisioning"
)

// OperationError is a failure reported inside a finished operation.
type OperationError struct {
	Operation string
	Code      string
	Message   string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s: %s: %s", e.Operation, e.Code, e.Message)
}

// translateError wraps an API call failure in a provisioning.APIError.
func translateError(op, resource string, err error) error {
	code := provisioning.ErrorCodeUnknown

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		code = codeForAPIError(gerr)
	}
	return &provisioning.APIError{Op: op, Resource: resource, Code: code, Err: err}
}

func codeForAPIError(gerr *googleapi.Error) provisioning.ErrorCode {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "alreadyExists", "duplicate":
			return provisioning.ErrorCodeAlreadyExists
		case "notFound":
			return provisioning.ErrorCodeNotFound
		case "invalid", "invalidParameter", "required":
			return provisioning.ErrorCodeInvalidInput
		}
	}

	switch gerr.Code {
	case http.StatusConflict:
		return provisioning.ErrorCodeAlreadyExists
	case http.StatusNotFound:
		return provisioning.ErrorCodeNotFound
	case http.StatusBadRequest:
		return provisioning.ErrorCodeInvalidInput
	default:
		return provisioning.ErrorCodeUnknown
	}
}

// operationError returns nil for a successful operation. A failed one
// becomes an APIError classified by its first error code.
func operationError(verb, resource string, op *compute.Operation) error {
	if op.Error == nil || len(op.Error.Errors) == 0 {
		return nil
	}

	errs := make([]error, 0, len(op.Error.Errors))
	for _, e := range op.Error.Errors {
		errs = append(errs, &OperationError{Operation: op.Name, Code: e.Code, Message: e.Message})
	}

	return &provisioning.APIError{
		Op:       verb,
		Resource: resource,
		Code:     codeForOperationError(op.Error.Errors[0].Code),
		Err:      errors.Join(errs...),
	}
}

func codeForOperationError(code string) provisioning.ErrorCode {
	switch {
	case code == "RESOURCE_ALREADY_EXISTS" || code == "ALREADY_EXISTS":
		return provisioning.ErrorCodeAlreadyExists
	case code == "RESOURCE_NOT_FOUND" || code == "NOT_FOUND":
		return provisioning.ErrorCodeNotFound
	case strings.HasPrefix(code, "INVALID"):
		return provisioning.ErrorCodeInvalidInput
	default:
		return provisioning.ErrorCodeUnknown
	}
}

// isTransient reports whether polling may be retried after err.
func isTransient(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusTooManyRequests || gerr.Code >= http.StatusInternalServerError
}
