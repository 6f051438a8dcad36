package registration

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongStep is returned when an operation is not allowed in the current step.
	ErrWrongStep = errors.New("operation not allowed in current step")
	// ErrTimeout marks an external call that hit Policy.CallTimeout.
	ErrTimeout = errors.New("external call timed out")
)

// ValidationError is a missing or malformed field. No side effect was attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FileTooLargeError blocks the upload attempt.
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file size should be less than %d MB (got %d bytes)", e.Limit/(1024*1024), e.Size)
}

// UploadError means the storage call failed and no record was created.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError means the record could not be created after a successful upload.
// The object at UploadURL is unreferenced until a retry succeeds.
type PersistenceError struct {
	UploadURL string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("create registration: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
