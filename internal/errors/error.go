// Package errors provides custom error types for product-related operations.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrValidation      = errors.New("validation failed")
	ErrStore           = errors.New("store operation failed")
	ErrCache           = errors.New("cache operation failed")
)

// ValidationError reports a product field that violates its constraint.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports that the store has no record for ID.
// It matches ErrProductNotFound with errors.Is.
type NotFoundError struct {
	ID int64
}

func NewNotFoundError(id int64) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no product with id %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// OpError describes a failed call to the store or the cache.
// Kind is ErrStore or ErrCache.
type OpError struct {
	Kind error
	Op   string
	Err  error
}

func NewStoreError(op string, err error) *OpError {
	return &OpError{Kind: ErrStore, Op: op, Err: err}
}

func NewCacheError(op string, err error) *OpError {
	return &OpError{Kind: ErrCache, Op: op, Err: err}
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
