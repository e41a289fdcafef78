package employee

import "errors"

var (
	ErrStoreUpload      = errors.New("failed to store uploaded file")
	ErrCreateBatch      = errors.New("failed to create import batch")
	ErrEnqueueJobs      = errors.New("failed to enqueue import jobs")
	ErrMalformedRow     = errors.New("malformed import row")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNotOwner         = errors.New("employee belongs to another user")
	ErrValidation       = errors.New("validation failed")
	ErrBatchNotFound    = errors.New("batch not found")
)
