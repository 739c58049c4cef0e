package hcloud

import (
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/genesis/internal/provisioning"
)

// translateError wraps an API or action failure in a provisioning.APIError,
// classified by the Hetzner error code.
func translateError(op, resource string, err error) error {
	return &provisioning.APIError{Op: op, Resource: resource, Code: errorCode(err), Err: err}
}

func errorCode(err error) provisioning.ErrorCode {
	switch {
	case isHCloudErrorCode(err, hcloud.ErrorCodeUniquenessError):
		return provisioning.ErrorCodeAlreadyExists
	case isHCloudErrorCode(err, hcloud.ErrorCodeNotFound):
		return provisioning.ErrorCodeNotFound
	case isHCloudErrorCode(err, hcloud.ErrorCodeInvalidInput, hcloud.ErrorCodeInvalidServerType):
		return provisioning.ErrorCodeInvalidInput
	}

	var actionErr hcloud.ActionError
	if errors.As(err, &actionErr) && actionErr.Code == string(hcloud.ErrorCodeUniquenessError) {
		return provisioning.ErrorCodeAlreadyExists
	}
	return provisioning.ErrorCodeUnknown
}

// isHCloudErrorCode checks if the error is an hcloud API error with one of the given codes.
func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	if err == nil {
		return false
	}

	var hcloudErr hcloud.Error
	if errors.As(err, &hcloudErr) {
		for _, code := range codes {
			if hcloudErr.Code == code {
				return true
			}
		}
	}
	return false
}
