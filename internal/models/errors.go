package models

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by every service. Handlers map these to HTTP
// statuses; services never let driver errors cross their boundary untagged.
var (
	ErrNotFound       = errors.New("not found")
	ErrExists         = errors.New("already exists")
	ErrBadCredentials = errors.New("incorrect username or password")
	ErrNotAuthorized  = errors.New("not privileged")
	ErrSchemaInvalid  = errors.New("database does not match schema")
)

// StorageError hides the underlying driver error from callers while keeping
// it available for logs via Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s failed", e.Op)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps a driver error for the given operation.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
