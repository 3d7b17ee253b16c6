// Package errs holds the error kinds shared by the logframe, update and
// indicator services.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	MissingRequiredField  Kind = "MissingRequiredField"
	InvalidValue          Kind = "InvalidValue"
	InconsistentReference Kind = "InconsistentReference"
	StoreFailure          Kind = "StoreError"
	NotFound              Kind = "NotFound"
)

var (
	// ErrValidation matches any *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a requested project, slug or row has no match.
	ErrNotFound = errors.New("not found")
)

// ValidationError is returned before any store contact when input is incomplete
// or inconsistent.
type ValidationError struct {
	Kind  Kind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case InconsistentReference:
		return fmt.Sprintf("inconsistent reference: %s", e.Field)
	default:
		return fmt.Sprintf("invalid value: %s", e.Field)
	}
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Missing builds a MissingRequiredField error for field.
func Missing(field string) error {
	return &ValidationError{Kind: MissingRequiredField, Field: field}
}

// Invalid builds an InvalidValue error for field.
func Invalid(field string) error {
	return &ValidationError{Kind: InvalidValue, Field: field}
}

// StoreError wraps a data store failure. The message is the store's own.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps err as a StoreError unless it is nil or already one.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// PartialWriteError reports a compound write whose parent row committed while
// a child write failed. Nothing is rolled back.
type PartialWriteError struct {
	Committed any
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: parent committed, children failed: %v", e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err, or "" when it carries none.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	if errors.Is(err, ErrNotFound) {
		return NotFound
	}
	var se *StoreError
	if errors.As(err, &se) {
		return StoreFailure
	}
	return ""
}
