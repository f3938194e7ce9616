// Package apperr holds the error kinds shared by the store, media and service layers.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel for missing resources; match with errors.Is.
var ErrNotFound = NotFoundError{}

// NotFoundError represents a referenced id with no backing document.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// NotFound returns a NotFoundError for resource.
func NotFound(resource string) error {
	return NotFoundError{Resource: resource}
}

// ValidationError reports write-path input that failed validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid wraps err as a ValidationError. A nil err stays nil.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}

// ErrTooLarge is wrapped by UploadError when an asset exceeds the size limit.
var ErrTooLarge = errors.New("file size exceeds maximum limit")

// UploadError reports a failed blob transfer or token step.
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Op, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// RemoteError reports a failure of a managed backend (document store, blob store).
type RemoteError struct {
	Service string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Remote wraps err as a RemoteError unless it is nil or already classified.
func Remote(service string, err error) error {
	if err == nil {
		return nil
	}
	var re *RemoteError
	if errors.Is(err, ErrNotFound) || errors.As(err, &re) {
		return err
	}
	return &RemoteError{Service: service, Err: err}
}
