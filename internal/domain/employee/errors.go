package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrBatchNotFound    = errors.New("batch not found")
)
