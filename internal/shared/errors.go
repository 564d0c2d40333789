package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a missing row or a dangling reference.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates a missing or malformed field.
	ErrValidation = errors.New("validation failed")
	// ErrInsufficientStock indicates a product cannot cover the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StoreError wraps a failure raised by the persistence layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// StoreFailure wraps err as a StoreError unless it already carries a domain kind.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrInsufficientStock) {
		return err
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// FieldError reports a request field that failed validation.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return "Missing field: " + e.Field
	case "gte":
		return fmt.Sprintf("Invalid field: %s must be >= %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("Invalid field: %s must be one of [%s]", e.Field, e.Param)
	default:
		return "Invalid field: " + e.Field
	}
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}
