package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError_Unwrap(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NewNotFound("layer", "Roads"))

	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected errors.Is(err, ErrNotFound)")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("expected errors.As to *NotFoundError")
	}
	if nf.Kind != "layer" || nf.Name != "Roads" {
		t.Errorf("unexpected fields: %+v", nf)
	}
	if got, want := nf.Error(), `layer "Roads": not found`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSchemaMismatchError_Unwrap(t *testing.T) {
	err := &SchemaMismatchError{Layer: "Parcels", FieldName: "Acres"}
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatal("expected errors.Is(err, ErrSchemaMismatch)")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("schema mismatch must not match ErrNotFound")
	}
}

func TestInvariantViolationError_Unwrap(t *testing.T) {
	err := NewInvariantViolation("Parcels", "schema layer has no popupInfo")
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatal("expected errors.Is(err, ErrInvariantViolation)")
	}
	want := `invariant violation: layer "Parcels": schema layer has no popupInfo`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
