package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing portal item, layer or operational layer.
	ErrNotFound = errors.New("not found")
	// ErrSchemaMismatch signals a popup field info without a schema field.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrInvariantViolation signals portal data that breaks an expected invariant.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrInvalidArgument signals invalid workflow input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPortal signals a failure reported by the portal.
	ErrPortal = errors.New("portal error")
)

// NotFoundError wraps ErrNotFound with what was looked up.
type NotFoundError struct {
	Kind string // "item", "layer", "operational layer", ...
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Name, ErrNotFound.Error())
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound creates a not found error.
func NewNotFound(kind, name string) error {
	return &NotFoundError{Kind: kind, Name: name}
}

// SchemaMismatchError reports a field info whose fieldName has no schema counterpart.
type SchemaMismatchError struct {
	Layer     string
	FieldName string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: layer %q has no schema field %q", ErrSchemaMismatch.Error(), e.Layer, e.FieldName)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// InvariantViolationError wraps ErrInvariantViolation with the offending layer.
type InvariantViolationError struct {
	Layer  string
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: layer %q: %s", ErrInvariantViolation.Error(), e.Layer, e.Reason)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

// NewInvariantViolation creates an invariant violation error.
func NewInvariantViolation(layer, reason string) error {
	return &InvariantViolationError{Layer: layer, Reason: reason}
}
