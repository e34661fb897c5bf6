package upload

import "errors"

var (
	ErrMissingUserID = errors.New("userId is required")
	ErrBatchNotFound = errors.New("preview batch not found or expired")
)
